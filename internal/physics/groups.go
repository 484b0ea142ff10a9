package physics

// Group is a collision group bit set.
type Group uint32

const (
	GroupDeadZone        Group = 1 << iota // sensor under the floor that catches balls
	GroupBall                              // launched balls
	GroupEnemy                             // enemy bodies
	GroupWall                              // arena walls
	GroupPaddle                            // the player's brick
	GroupTransparentWall                   // floor that blocks only the paddle
	GroupDoor                              // door sensors
	GroupItem                              // item pickups

	GroupAll Group = 0xFFFFFFFF
)

// Filter decides which colliders may interact. Two colliders interact when
// each one's memberships intersect the other's mask.
type Filter struct {
	Memberships Group
	Mask        Group
}

// NewFilter creates a filter.
func NewFilter(memberships, mask Group) Filter {
	return Filter{Memberships: memberships, Mask: mask}
}

// Interacts reports whether two filters allow contact.
func (f Filter) Interacts(o Filter) bool {
	return f.Memberships&o.Mask != 0 && o.Memberships&f.Mask != 0
}

// Tag marks bodies for bulk queries and despawns.
type Tag uint16

const (
	TagRoom     Tag = 1 << iota // despawned when the room unloads
	TagBall                     // launched ball
	TagPaddle                   // player brick
	TagEnemy                    // enemy
	TagItem                     // item pickup
	TagWall                     // wall or transparent floor
	TagDoor                     // door sensor
	TagDeadZone                 // dead-zone sensor
)

// Has reports whether all bits of o are set.
func (t Tag) Has(o Tag) bool {
	return t&o == o
}
