package mood

// Entry is one in-memory mood record. Time is kept as the display string the
// user sees in listings.
type Entry struct {
	Mood string
	Time string
}

// jsonLineItem is the durable form of an entry: one self-describing line per
// log event so the file can be replayed into per-user state after a restart.
type jsonLineItem struct {
	UserID string `json:"userId"`
	Mood   string `json:"mood"`
	Time   string `json:"time"`
}
