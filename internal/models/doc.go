// Package models defines the data types shared by the wrlog pipeline and its stores.
//
// The package contains three groups of types:
//
// 1. Gateway payloads: data returned by the leaderboard gateway
//   - [LeaderboardEntry] : one ranked competitor on a leaderboard
//   - [Leaderboard] : the ordered top entries of one leaderboard
//   - [WorkshopItem] : a community level published to the workshop
//
// 2. Snapshots: the state observed by one run
//   - [LevelSnapshot] : the top two entries of one level/mode leaderboard at capture time
//   - [Snapshots] : the keyed collection persisted between runs
//
// 3. History: the append-only record feed
//   - [ChangelistEntry] : one rank-1 improvement
//   - [Changelist] : every entry ever appended, oldest first
//
// [Mode] carries the comparison direction of each game mode. The JSON field names of every persisted
// type are fixed so that state written by earlier deployments keeps loading.
package models
