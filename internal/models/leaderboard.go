package models

import "encoding/json"

// LeaderboardEntry is one ranked competitor as reported by the gateway.
type LeaderboardEntry struct {
	SteamID    uint64 `json:"steam_id"`
	GlobalRank int32  `json:"global_rank"`
	Score      int32  `json:"score"`
	PlayerName string `json:"player_name"`
}

// Leaderboard holds entries ordered by ascending rank.
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// MarshalJSON always writes entries as an array so that an empty fetch never encodes as null.
func (l Leaderboard) MarshalJSON() ([]byte, error) {
	type leaderboard Leaderboard
	if l.Entries == nil {
		l.Entries = []LeaderboardEntry{}
	}
	return json.Marshal(leaderboard(l))
}

// First returns the rank-1 entry, if any.
func (l Leaderboard) First() (LeaderboardEntry, bool) {
	if len(l.Entries) == 0 {
		return LeaderboardEntry{}, false
	}
	return l.Entries[0], true
}

// Empty reports whether the leaderboard has no entries.
func (l Leaderboard) Empty() bool {
	return len(l.Entries) == 0
}

// WorkshopItem is a community level returned by a ready-to-use catalog query.
type WorkshopItem struct {
	PublishedFileID uint64   `json:"published_file_id"`
	SteamIDOwner    uint64   `json:"steam_id_owner"`
	FileName        string   `json:"file_name"`
	Title           string   `json:"title"`
	Score           float32  `json:"score"`
	Tags            []string `json:"tags"`
	AuthorName      string   `json:"author_name"`
	PreviewURL      string   `json:"preview_url"`
}
