package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const requestDataKey contextKey = "request_data"

// RequestData is the authenticated identity attached to every request
// context by the auth middleware.
type RequestData struct {
	UserID uuid.UUID
	Email  string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	rd, ok := ctx.Value(requestDataKey).(*RequestData)
	if !ok {
		return nil
	}
	return rd
}
