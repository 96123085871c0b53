package api

import (
	"scheduler/internal/models"
)

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type slotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type meetingResponse struct {
	Participants []string       `json:"participants"`
	Slots        []slotResponse `json:"slots"`
}

func toSlotResponses(slots []models.TimeInterval) []slotResponse {
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			Start: s.Start.Format(models.TimeLayout),
			End:   s.End.Format(models.TimeLayout),
		})
	}
	return out
}
