package requestdata

import (
	"context"

	"github.com/google/uuid"

	"github.com/adeptlearn/tutor-backend/internal/types"
)

type requestDataKeyType struct{}

var requestDataKey = requestDataKeyType{}

// RequestData carries the authenticated principal through the request
// context once the auth middleware has resolved the token.
type RequestData struct {
	UserID       uuid.UUID
	Role         types.Role
	TokenString  string
	RefreshToken string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey).(*RequestData); ok {
		return rd
	}
	return nil
}
