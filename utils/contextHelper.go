package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/site_backend/appctx"
)

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyTrigger       = appctx.ContextKeyTrigger
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func GetTriggerFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyTrigger)
}

func SetTriggerInContext(ctx context.Context, trigger string) context.Context {
	return appctx.Set(ctx, ContextKeyTrigger, trigger)
}
