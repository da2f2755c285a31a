package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleActivity() Activity {
	return Activity{
		ID:          "create-registration-ticket",
		DisplayName: "Create Registration Ticket",
		Category:    "registration",
		TaskType:    "registration.ticket.create",
		Timeout:     "60s",
	}
}

func TestRegistry_UpsertSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "activity-registry.json")

	reg, err := LoadOrNew(path)
	require.NoError(t, err)
	assert.Empty(t, reg.Activities)

	assert.True(t, reg.Upsert(sampleActivity()))
	assert.False(t, reg.Upsert(sampleActivity()), "identical activity is not a change")

	changed := sampleActivity()
	changed.Retries = 2
	assert.True(t, reg.Upsert(changed))
	assert.Len(t, reg.Activities, 1)

	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	require.NoError(t, reg.Save(path, now))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16T09:00:00Z", loaded.LastUpdated)
	found, ok := loaded.Find("registration.ticket.create")
	require.True(t, ok)
	assert.Equal(t, 2, found.Retries)
}

func TestRegistry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ActivityRegistry)
		wantErr string
	}{
		{name: "valid", mutate: func(*ActivityRegistry) {}},
		{name: "empty", mutate: func(r *ActivityRegistry) { r.Activities = nil }, wantErr: "no activities"},
		{name: "duplicate", mutate: func(r *ActivityRegistry) { r.Activities = append(r.Activities, sampleActivity()) }, wantErr: "duplicate"},
		{name: "missing task type", mutate: func(r *ActivityRegistry) { r.Activities[0].TaskType = "" }, wantErr: "TaskType"},
		{name: "bad timeout", mutate: func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, wantErr: "invalid timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{sampleActivity()}}
			tt.mutate(reg)
			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
