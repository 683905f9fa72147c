package internal

import "time"

// CaptureSnapshot records the pre-submission conversation. Every user turn
// in it is pre-existing and can never be the trigger of the new answer.
func CaptureSnapshot(seq []Message, at time.Time) ConversationSnapshot {
	snapshot := ConversationSnapshot{
		Messages:       append([]Message(nil), seq...),
		UserIDs:        make(map[string]struct{}),
		AssistantTexts: make(map[string]struct{}),
		CapturedAt:     at,
	}
	for _, msg := range seq {
		switch msg.Role {
		case RoleUser:
			snapshot.UserIDs[msg.ID] = struct{}{}
			if CompareIDs(msg.ID, snapshot.BaselineMaxUserID) > 0 {
				snapshot.BaselineMaxUserID = msg.ID
			}
		case RoleAssistant:
			snapshot.AssistantTexts[msg.Text] = struct{}{}
		}
	}
	return snapshot
}
