package model

// RequestStage is a row of the `request_stage` table. The four logical
// lifecycle stages (New, In Progress, Repaired, Scrap) are stored here
// with fixed sequence numbers; the name column carries a unique key so
// that concurrent bootstrap inserts collapse to a single row. Stage
// identity for business logic is resolved by lifecycle.ParseStage, never
// by comparing raw names.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – unique stage label, e.g. "In Progress".
//  Sequence – ordering within the lifecycle (10/20/30/40).
//  IsClosed – true for the terminal stages (Repaired, Scrap).
//  IsScrap  – true only for Scrap.
type RequestStage struct {
	ID       uint64 // request_stage.id
	Name     string // request_stage.name
	Sequence int    // request_stage.sequence
	IsClosed bool   // request_stage.is_closed
	IsScrap  bool   // request_stage.is_scrap
}
