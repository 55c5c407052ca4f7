package events

import "time"

const PayrollGeneratedTopic = "staff.payroll.generated.v1"

type PayrollGeneratedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	RunType     string    `json:"run_type"`
	RecordIDs   []string  `json:"record_ids"`
	RecordCount int       `json:"record_count"`
	GeneratedBy string    `json:"generated_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
