package progression

// Level thresholds are quadratic in lifetime points: reaching level L requires
// LevelBase * (L-1)^2 total points, so 0, 100, 400, 900, 1600, ...
const LevelBase = 100

// MaxLevel caps progression; the curve keeps growing but the client UI does not.
const MaxLevel = 50

// LevelForPoints returns the level earned by a lifetime points total.
func LevelForPoints(totalPoints int) int {
	if totalPoints < LevelBase {
		return 1
	}
	level := 1
	for level < MaxLevel && totalPoints >= LevelBase*level*level {
		level++
	}
	return level
}

// PointsForLevel returns the lifetime points threshold for a level.
func PointsForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return LevelBase * (level - 1) * (level - 1)
}
