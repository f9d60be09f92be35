package player

// SourceImport tags players created by the scrape pipeline rather than by a
// registered user, so operators can review them later.
const SourceImport = "tvm-import"

// Player is the canonical player record. TVMID is the federation-issued id;
// UserID is non-empty when a registered user has claimed the record.
type Player struct {
	ID        string
	Name      string
	CurrentLK string
	TVMID     string
	UserID    string
	Source    string
}
