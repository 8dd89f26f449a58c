package responses

import (
	"github.com/formbase/formbase/internal/db/queries"
	"github.com/formbase/formbase/pkg/fb/model"
)

func responseFromQueries(r queries.Response) *Response {
	resp := &Response{
		ID:              r.ID,
		FormID:          r.FormID,
		RespondentEmail: model.StringPtr(r.RespondentEmail),
		RespondentName:  model.StringPtr(r.RespondentName),
		IPAddress:       r.IpAddress,
		UserAgent:       r.UserAgent,
		SubmittedAt:     r.SubmittedAt.UTC(),
		IsDuplicate:     r.IsDuplicate,
		Entries:         []*Entry{},
	}
	if r.UserID.Valid {
		uid := r.UserID.Int64
		resp.UserID = &uid
	}
	return resp
}

func entryFromQueries(e queries.ResponseEntry) *Entry {
	return &Entry{
		ID:          e.ID,
		ResponseID:  e.ResponseID,
		FormFieldID: e.FormFieldID,
		FieldValue:  e.FieldValue,
	}
}
