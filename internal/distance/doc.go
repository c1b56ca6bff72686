// Package distance holds the game-specific naming and formatting rules for Distance leaderboards.
//
// # Leaderboard names
//
// [LeaderboardName] builds the key the game itself uses for a level/mode leaderboard. Official levels use
// "{level}_{modeID}_stable" and community levels append the owner id: "{level}_{modeID}_{owner}_stable".
// The same inputs always produce the same name, so it is safe to join snapshots from different runs on it.
//
// # Scores
//
// [FormatScore] renders a raw leaderboard score for display. Sprint and Challenge scores are elapsed
// milliseconds; Stunt scores are points ("eV").
//
// # Official levels
//
// [OfficialLevels] returns the compiled-in table of official level/mode pairs.
package distance
