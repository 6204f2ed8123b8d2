package adapter

import (
	"slices"

	"github.com/akolanti/mindsync/internal/api"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
)

// ToJobResponse renders a job with its document's events, newest first
func ToJobResponse(job jobModel.Job, events []jobModel.Event) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Kind:               job.Error.Kind,
			Code:               job.Error.Code,
			Message:            job.Error.Message,
			Details:            job.Error.Details,
			StatusWriteFailure: job.Error.StatusWriteFailure,
		}
	}

	var result *api.ProcessDocumentData
	if job.Result != nil {
		data := ToProcessData(*job.Result)
		result = &data
	}

	outEvents := make([]api.JobEvent, 0, len(events))
	for _, e := range events {
		outEvents = append(outEvents, api.JobEvent{
			Stage:   string(e.Stage),
			Ok:      e.Ok,
			Message: e.Message,
			At:      e.At,
		})
	}
	slices.Reverse(outEvents)

	return api.JobResponse{
		Id:          job.Id,
		DocumentId:  job.DocumentId,
		Status:      string(job.Status),
		CurrentStep: string(job.CurrentStep),
		Result:      result,
		Error:       errorPtr,
		StartTime:   job.CreatedTime,
		EndTime:     job.EndTime,
		Events:      outEvents,
	}
}
