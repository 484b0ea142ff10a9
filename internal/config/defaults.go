package config

import (
	_ "embed"
)

//go:embed defaults/dungeon.yaml
var defaultDungeonYAML []byte

//go:embed defaults/rooms.yaml
var defaultRoomsYAML []byte

//go:embed defaults/items.yaml
var defaultItemsYAML []byte

// DefaultDungeonConfig returns the built-in tuning.
func DefaultDungeonConfig() DungeonConfig {
	return DungeonConfig{
		Physics: PhysicsConfig{
			Stiffness:         1000,
			FluidDensity:      1.83,
			MagnusCoefficient: 0.3,
			MagnusScale:       0.001,
			AngularDamping:    0.8,
			TangentialGain:    10,
		},
		Ball: BallConfig{
			Size:              40,
			Mass:              1,
			Inertia:           0.3,
			LaunchSpeed:       500,
			Friction:          1,
			Restitution:       1,
			Damage:            10,
			DamageCoefficient: 1,
			HandGap:           9,
			InventorySize:     6,
			StartingBalls:     3,
			Recycle:           true,
		},
		Paddle: PaddleConfig{
			Width:       113,
			Height:      38,
			Speed:       500,
			Mass:        80,
			Friction:    3,
			Restitution: 3,
			PressureMax: 100,
			StartX:      0,
			StartY:      -250,
			AimSpeed:    2,
			AimMinDeg:   15,
			AimMaxDeg:   165,
			ContactHit:  20,
		},
		Arena: ArenaConfig{
			Width:           1280,
			Height:          720,
			WallThickness:   30,
			WallFriction:    1,
			StartFriction:   0.5,
			WallRestitution: 1,
			DespawnMargin:   100,
			DoorHalfW:       65,
			DoorHalfH:       20,
			Doors: []Point{
				{X: -240, Y: 345},
				{X: 150, Y: 345},
			},
			ItemRadius: 25,
			StartItem:  Point{X: 60, Y: 60},
			StartEnemy: Point{X: 0, Y: 0},
			StartExits: 2,
		},
		Loading: LoadingConfig{
			FadeTicks:          60,
			ConfirmationFrames: 0,
			AssetLatencyTicks:  3,
		},
		Selection: SelectionConfig{
			GatedBoost: 100,
			VictoryAt:  0,
		},
	}
}

// DefaultRoomsYAML returns the embedded rooms catalog.
func DefaultRoomsYAML() []byte {
	return defaultRoomsYAML
}

// DefaultItemsYAML returns the embedded item pool.
func DefaultItemsYAML() []byte {
	return defaultItemsYAML
}
