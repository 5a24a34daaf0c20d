package context

import (
	"context"

	"tablegen/infrastructure/worksheet"
)

type workspaceKey struct{}

func NewContextWithWorkspace(ctx context.Context, ws *worksheet.Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey{}, ws)
}

func GetWorkspaceFromContext(ctx context.Context) (*worksheet.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey{}).(*worksheet.Workspace)
	return ws, ok && ws != nil
}
