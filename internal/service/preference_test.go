package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"expirytracker/internal/model"
	repoMocks "expirytracker/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestPreferenceService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(m *repoMocks.MockPreferenceRepository)
		want       *model.Preferences
		wantErr    bool
	}{
		{
			name: "stored",
			setupMocks: func(m *repoMocks.MockPreferenceRepository) {
				m.On("Get", ctx, "user-1").Return(&model.Preferences{UserID: "user-1", Notify30Days: true}, nil)
			},
			want: &model.Preferences{UserID: "user-1", Notify30Days: true},
		},
		{
			name: "defaults when unset",
			setupMocks: func(m *repoMocks.MockPreferenceRepository) {
				m.On("Get", ctx, "user-1").Return(nil, sql.ErrNoRows)
			},
			want: &model.Preferences{UserID: "user-1", Notify30Days: true, Notify7Days: true, Notify1Day: true, NotifyExpired: true},
		},
		{
			name: "repository error",
			setupMocks: func(m *repoMocks.MockPreferenceRepository) {
				m.On("Get", ctx, "user-1").Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockPreferenceRepository)
			tt.setupMocks(m)

			got, err := NewPreferenceService(m).Get(ctx, "user-1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreferenceService_Update_Merges(t *testing.T) {
	ctx := context.Background()
	m := new(repoMocks.MockPreferenceRepository)
	svc := NewPreferenceService(m).(*preferenceService)
	svc.now = func() time.Time { return fixedNow }

	m.On("Get", ctx, "user-1").Return(nil, sql.ErrNoRows)
	m.On("Upsert", ctx, mock.MatchedBy(func(p *model.Preferences) bool {
		return p.UserID == "user-1" &&
			p.Notify30Days &&
			!p.Notify7Days &&
			p.Notify1Day &&
			p.NotifyExpired &&
			p.UpdatedAt.Equal(fixedNow)
	})).Return(&model.Preferences{UserID: "user-1", Notify30Days: true, Notify1Day: true, NotifyExpired: true}, nil)

	got, err := svc.Update(ctx, "user-1", PreferencesUpdate{Notify7Days: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, got.Notify7Days)
	m.AssertExpectations(t)
}

func TestPreferenceService_Update_UserRequired(t *testing.T) {
	_, err := NewPreferenceService(new(repoMocks.MockPreferenceRepository)).Update(context.Background(), "", PreferencesUpdate{})
	assert.ErrorIs(t, err, ErrUserRequired)
}
