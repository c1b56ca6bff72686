package models

import "time"

// FetchTimeLayout is the layout of [ChangelistEntry.FetchTime].
const FetchTimeLayout = time.RFC1123Z

// ChangelistEntry records one rank-1 improvement. Entries are never modified once appended.
//
// Ids are kept as decimal strings and optional fields are nil for official levels or when there was no
// previous holder.
type ChangelistEntry struct {
	MapName                string  `json:"map_name"`
	MapAuthor              *string `json:"map_author"`
	MapPreview             *string `json:"map_preview"`
	Mode                   string  `json:"mode"`
	NewRecordholder        string  `json:"new_recordholder"`
	OldRecordholder        *string `json:"old_recordholder"`
	RecordNew              string  `json:"record_new"`
	RecordOld              *string `json:"record_old"`
	WorkshopItemID         *string `json:"workshop_item_id"`
	SteamIDAuthor          *string `json:"steam_id_author"`
	SteamIDNewRecordholder string  `json:"steam_id_new_recordholder"`
	SteamIDOldRecordholder *string `json:"steam_id_old_recordholder"`
	FetchTime              string  `json:"fetch_time"`
}

// DedupKey holds the fields that identify the same record event across runs.
type DedupKey struct {
	MapName                string
	Mode                   string
	RecordNew              string
	WorkshopItemID         string
	HasWorkshopItemID      bool
	SteamIDAuthor          string
	HasSteamIDAuthor       bool
	SteamIDNewRecordholder string
}

// DedupKey returns the comparable key of e. The fetch time is deliberately excluded.
func (e ChangelistEntry) DedupKey() DedupKey {
	k := DedupKey{
		MapName:                e.MapName,
		Mode:                   e.Mode,
		RecordNew:              e.RecordNew,
		SteamIDNewRecordholder: e.SteamIDNewRecordholder,
	}
	if e.WorkshopItemID != nil {
		k.WorkshopItemID, k.HasWorkshopItemID = *e.WorkshopItemID, true
	}
	if e.SteamIDAuthor != nil {
		k.SteamIDAuthor, k.HasSteamIDAuthor = *e.SteamIDAuthor, true
	}
	return k
}

// FetchedAt parses [ChangelistEntry.FetchTime].
func (e ChangelistEntry) FetchedAt() (time.Time, error) {
	return time.Parse(FetchTimeLayout, e.FetchTime)
}

// Changelist is the append-only history, oldest entry first.
type Changelist []ChangelistEntry

// Keys returns the set of dedup keys present in the history.
func (c Changelist) Keys() map[DedupKey]struct{} {
	keys := make(map[DedupKey]struct{}, len(c))
	for _, e := range c {
		keys[e.DedupKey()] = struct{}{}
	}
	return keys
}

// Recent returns at most n entries, newest first.
func (c Changelist) Recent(n int) Changelist {
	if n <= 0 || n > len(c) {
		n = len(c)
	}
	out := make(Changelist, 0, n)
	for i := len(c) - 1; i >= len(c)-n; i-- {
		out = append(out, c[i])
	}
	return out
}

// Since returns the entries fetched at or after cutoff, in history order.
// Entries whose fetch time does not parse are left out.
func (c Changelist) Since(cutoff time.Time) Changelist {
	out := make(Changelist, 0, len(c))
	for _, e := range c {
		at, err := e.FetchedAt()
		if err != nil || at.Before(cutoff) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Deref returns the value of p, or "" when p is nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
