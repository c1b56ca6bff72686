package distance

import "github.com/desertthunder/wrlog/internal/models"

// OfficialLevel is one row of the official level table.
type OfficialLevel struct {
	Name string
	Mode models.Mode
}

var officialLevelNames = map[models.Mode][]string{
	models.Sprint: {
		"Broken Symmetry",
		"Lost Society",
		"Negative Space",
		"Ground Zero",
		"Departure",
		"Friction",
		"Aftermath",
		"The Thing About Machines",
		"Amusement",
		"Corruption",
		"The Observer Effect",
		"Dissolution",
		"Falling Through",
		"Monolith",
		"Uncanny Valley",
		"Cataclysm",
		"Diversion",
		"Euphoria",
		"Entanglement",
		"Automation",
		"Abyss",
		"Embers",
		"Isolation",
		"Repulsion",
		"Compression",
		"Research",
		"Contagion",
		"Overload",
		"Ascension",
		"Enemy",
		"Collapse",
		"Destination Unknown",
		"Micro-Brawl",
		"Hard Light",
		"Shadow Puppets",
		"Instability",
		"Zenith",
		"Resonance",
		"Eclipse",
		"Pulse",
		"Luminescence",
		"Serenity",
		"Mirage",
		"Terminal Velocity",
		"Tranquility",
	},
	models.Challenge: {
		"Dodge",
		"Thunder Struck",
		"Descent",
		"Detached",
		"Elevation",
		"Red",
		"Tetreal",
		"Destruction",
		"Grinder",
		"Fall",
		"Lost Fortress",
		"Fortress",
		"Sea of Black",
		"Neon Park",
		"Quantum Core",
		"Static Fire",
		"Zero",
		"Arrival",
	},
	models.Stunt: {
		"Stunt Playground",
		"Refraction",
		"Space Skate",
		"Tagged",
		"Neon Park",
		"Half Pipe",
		"Canyon",
		"Spiral",
	},
}

// OfficialLevels returns every official level/mode pair, Sprint first, then Challenge, then Stunt.
func OfficialLevels() []OfficialLevel {
	var levels []OfficialLevel
	for _, mode := range models.Modes {
		for _, name := range officialLevelNames[mode] {
			levels = append(levels, OfficialLevel{Name: name, Mode: mode})
		}
	}
	return levels
}
