// Package config provides YAML-based tuning and content loading for the
// dungeon: physics constants, paddle and arena geometry, transition timing
// and the raw rooms/items data files.
package config

import "fmt"

// DungeonConfig contains every tunable constant of a run.
type DungeonConfig struct {
	Physics   PhysicsConfig   `yaml:"physics"`
	Ball      BallConfig      `yaml:"ball"`
	Paddle    PaddleConfig    `yaml:"paddle"`
	Arena     ArenaConfig     `yaml:"arena"`
	Loading   LoadingConfig   `yaml:"loading"`
	Selection SelectionConfig `yaml:"selection"`
}

// PhysicsConfig defines the elastic resolver and Magnus model constants.
type PhysicsConfig struct {
	Stiffness         float64 `yaml:"stiffness"`          // spring constant k
	FluidDensity      float64 `yaml:"fluid_density"`      // rho
	MagnusCoefficient float64 `yaml:"magnus_coefficient"` // C
	MagnusScale       float64 `yaml:"magnus_scale"`       // final Magnus multiplier
	AngularDamping    float64 `yaml:"angular_damping"`    // c in w -= c*w*dt
	TangentialGain    float64 `yaml:"tangential_gain"`    // amplification of J_t
}

// BallConfig defines ball body parameters and the ball inventory.
type BallConfig struct {
	Size              float64 `yaml:"size"` // diameter
	Mass              float64 `yaml:"mass"`
	Inertia           float64 `yaml:"inertia"`
	LaunchSpeed       float64 `yaml:"launch_speed"`
	Friction          float64 `yaml:"friction"`
	Restitution       float64 `yaml:"restitution"`
	Damage            float64 `yaml:"damage"`
	DamageCoefficient float64 `yaml:"damage_coefficient"`
	HandGap           float64 `yaml:"hand_gap"` // gap between paddle top and ball in hand
	InventorySize     int     `yaml:"inventory_size"`
	StartingBalls     int     `yaml:"starting_balls"`
	Recycle           bool    `yaml:"recycle"` // return despawned balls to the inventory
}

// PaddleConfig defines the player's brick.
type PaddleConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Speed       float64 `yaml:"speed"`
	Mass        float64 `yaml:"mass"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
	PressureMax float64 `yaml:"pressure_max"`
	StartX      float64 `yaml:"start_x"`
	StartY      float64 `yaml:"start_y"`
	AimSpeed    float64 `yaml:"aim_speed"` // radians per second
	AimMinDeg   float64 `yaml:"aim_min_deg"`
	AimMaxDeg   float64 `yaml:"aim_max_deg"`
	ContactHit  float64 `yaml:"contact_hit"` // pressure dealt by an enemy touching the paddle
}

// Point is a 2D position in world units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ArenaConfig defines the room geometry shared by every builder.
type ArenaConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	WallThickness   float64 `yaml:"wall_thickness"`
	WallFriction    float64 `yaml:"wall_friction"`
	StartFriction   float64 `yaml:"start_wall_friction"`
	WallRestitution float64 `yaml:"wall_restitution"`
	DespawnMargin   float64 `yaml:"despawn_margin"` // extra room below the floor before a ball is dropped
	DoorHalfW       float64 `yaml:"door_half_w"`
	DoorHalfH       float64 `yaml:"door_half_h"`
	Doors           []Point `yaml:"doors"` // door sensors and room icon anchors, by index
	ItemRadius      float64 `yaml:"item_radius"`
	StartItem       Point   `yaml:"start_item"`
	StartEnemy      Point   `yaml:"start_enemy"`
	StartExits      int     `yaml:"start_exits"`
}

// LoadingConfig defines room transition timing.
type LoadingConfig struct {
	FadeTicks          int `yaml:"fade_ticks"`
	ConfirmationFrames int `yaml:"confirmation_frames"`
	AssetLatencyTicks  int `yaml:"asset_latency_ticks"` // simulated load time of arena assets
}

// SelectionConfig defines room selection tuning.
type SelectionConfig struct {
	GatedBoost int `yaml:"gated_boost"` // weight added to remaining depth-gated rooms after each draw
	VictoryAt  int `yaml:"victory_at"`  // depth at which a run counts as won; 0 means entering a PostBoss room
}

// Validate checks values that would break the simulation.
func (c DungeonConfig) Validate() error {
	switch {
	case c.Ball.Size <= 0:
		return fmt.Errorf("ball.size must be positive, got %v", c.Ball.Size)
	case c.Ball.Mass <= 0:
		return fmt.Errorf("ball.mass must be positive, got %v", c.Ball.Mass)
	case c.Paddle.Width <= 0 || c.Paddle.Height <= 0:
		return fmt.Errorf("paddle size must be positive, got %vx%v", c.Paddle.Width, c.Paddle.Height)
	case c.Arena.Width <= 0 || c.Arena.Height <= 0:
		return fmt.Errorf("arena size must be positive, got %vx%v", c.Arena.Width, c.Arena.Height)
	case len(c.Arena.Doors) == 0:
		return fmt.Errorf("arena.doors must list at least one door")
	case c.Loading.FadeTicks < 0 || c.Loading.ConfirmationFrames < 0:
		return fmt.Errorf("loading ticks must not be negative")
	case c.Arena.StartExits <= 0:
		return fmt.Errorf("arena.start_exits must be positive, got %d", c.Arena.StartExits)
	}
	return nil
}
