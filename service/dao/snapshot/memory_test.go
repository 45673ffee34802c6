package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/brigade/model"
	"github.com/viant/brigade/service/dao"
	"github.com/viant/brigade/service/dao/criteria"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	srv := New()

	require.NoError(t, srv.Save(ctx, &model.Snapshot{WorkerID: 2, ActiveCount: 1, TotalCapacity: 2}))
	require.NoError(t, srv.Save(ctx, &model.Snapshot{WorkerID: 1, TotalCapacity: 2}))
	require.NoError(t, srv.Save(ctx, model.FallbackSnapshot(3, 2)))
	assert.True(t, errors.Is(srv.Save(ctx, nil), dao.ErrNilEntity))

	loaded, err := srv.Load(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.ActiveCount)
	_, err = srv.Load(ctx, 9)
	assert.True(t, errors.Is(err, dao.ErrNotFound))

	testCases := []struct {
		name       string
		parameters []*dao.Parameter
		expected   []int
	}{
		{name: "all ordered", expected: []int{1, 2, 3}},
		{name: "idle", parameters: []*dao.Parameter{dao.NewParameter(criteria.Idle, true)}, expected: []int{1, 3}},
		{name: "busy", parameters: []*dao.Parameter{dao.NewParameter(criteria.Idle, false)}, expected: []int{2}},
		{name: "reported", parameters: []*dao.Parameter{dao.NewParameter(criteria.Fallback, false)}, expected: []int{1, 2}},
		{name: "by ids", parameters: []*dao.Parameter{dao.NewParameter(criteria.WorkerID, []int{3, 2})}, expected: []int{2, 3}},
		{name: "by id", parameters: []*dao.Parameter{dao.NewParameter(criteria.WorkerID, 1)}, expected: []int{1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			list, err := srv.List(ctx, tc.parameters...)
			require.NoError(t, err)
			var ids []int
			for _, item := range list {
				ids = append(ids, item.WorkerID)
			}
			assert.Equal(t, tc.expected, ids)
		})
	}

	require.NoError(t, srv.Delete(ctx, 2))
	list, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
