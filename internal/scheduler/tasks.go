package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskScoreBatch = "scoring.batch"

type ScoreBatchPayload struct {
	BatchID string `json:"batchId"`
	OfferID string `json:"offerId"`
}

func NewScoreBatchTask(payload ScoreBatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskScoreBatch, data), nil
}

func ParseScoreBatchPayload(task *asynq.Task) (ScoreBatchPayload, error) {
	var payload ScoreBatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ScoreBatchPayload{}, err
	}
	return payload, nil
}

// IDs returns the parsed batch and offer identifiers.
func (p ScoreBatchPayload) IDs() (batchID, offerID uuid.UUID, err error) {
	batchID, err = uuid.Parse(p.BatchID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid batch id %q: %w", p.BatchID, err)
	}
	offerID, err = uuid.Parse(p.OfferID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid offer id %q: %w", p.OfferID, err)
	}
	return batchID, offerID, nil
}
