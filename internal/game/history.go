package game

// HistoryEntry is one player's summary of a finished game:
// win/loss/draw from that player's perspective plus trick counts.
type HistoryEntry struct {
	SessionID    uint32 `json:"sessionId"`
	GameID       string `json:"gameId"`
	Opponent     string `json:"opponent"`
	Result       string `json:"result"` // "Win", "Loss", "Draw"
	MyTricks     uint32 `json:"myTricks"`
	OppTricks    uint32 `json:"oppTricks"`
	EndedAtLedger int64  `json:"endedAtLedger"`
}

// BuildHistoryEntries derives each player's history summary from a
// just-finished session. It is a pure function: the caller (the
// storage-owning layer) is responsible for appending the result into
// each player's ring buffer and evicting past MaxHistoryPerPlayer, per
// the Session having no storage reference of its own.
func BuildHistoryEntries(s *Session, nowLedger int64) (p1, p2 HistoryEntry) {
	p1 = HistoryEntry{
		SessionID:     s.SessionID,
		GameID:        s.GameID,
		Opponent:      s.Player2,
		Result:        resultFor(s.Outcome, SlotP1),
		MyTricks:      s.TricksWon[0],
		OppTricks:     s.TricksWon[1],
		EndedAtLedger: nowLedger,
	}
	p2 = HistoryEntry{
		SessionID:     s.SessionID,
		GameID:        s.GameID,
		Opponent:      s.Player1,
		Result:        resultFor(s.Outcome, SlotP2),
		MyTricks:      s.TricksWon[1],
		OppTricks:     s.TricksWon[0],
		EndedAtLedger: nowLedger,
	}
	return p1, p2
}

func resultFor(outcome Outcome, slot Slot) string {
	switch outcome {
	case OutcomeDraw:
		return "Draw"
	case OutcomeP1Win:
		if slot == SlotP1 {
			return "Win"
		}
		return "Loss"
	case OutcomeP2Win:
		if slot == SlotP2 {
			return "Win"
		}
		return "Loss"
	default:
		return "Unresolved"
	}
}

// AppendHistory appends entry to log, evicting the oldest entry once
// the ring buffer exceeds MaxHistoryPerPlayer.
func AppendHistory(log []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	log = append(log, entry)
	if len(log) > MaxHistoryPerPlayer {
		log = log[len(log)-MaxHistoryPerPlayer:]
	}
	return log
}
