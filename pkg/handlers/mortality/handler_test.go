package mortality

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/mortality-atlas/pkg/models/api"
	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/de-tools/mortality-atlas/pkg/store/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Latest(ctx context.Context) (domain.AggregateReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.AggregateReport), args.Error(1)
}

func sampleReport() domain.AggregateReport {
	r := domain.AggregateReport{
		Meta: domain.ReportMeta{
			UpdatedAt: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
			Source:    domain.SourceFallback,
			Note:      "estimates",
		},
	}
	r.National = domain.NationalSeries{
		Weeks:       []string{"Week 40"},
		TotalDeaths: []int{9200},
		Natural:     []int{8096},
		Unnatural:   []int{1104},
	}
	return r
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mockSource)
		handler        func(*Handler) http.HandlerFunc
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name: "report",
			setupMock: func(m *mockSource) {
				m.On("Latest", mock.Anything).Return(sampleReport(), nil)
			},
			handler:        func(h *Handler) http.HandlerFunc { return h.GetReport },
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got api.MortalityReport
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, "2026-10-19", got.Meta.UpdatedAt)
				assert.Equal(t, []int{9200}, got.National.TotalDeaths)
				assert.NotNil(t, got.Provinces)
			},
		},
		{
			name: "meta",
			setupMock: func(m *mockSource) {
				m.On("Latest", mock.Anything).Return(sampleReport(), nil)
			},
			handler:        func(h *Handler) http.HandlerFunc { return h.GetMeta },
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got api.Meta
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, api.Meta{UpdatedAt: "2026-10-19", Source: domain.SourceFallback, Note: "estimates"}, got)
			},
		},
		{
			name: "no snapshot yet",
			setupMock: func(m *mockSource) {
				m.On("Latest", mock.Anything).Return(domain.AggregateReport{}, snapshot.ErrNotFound)
			},
			handler:        func(h *Handler) http.HandlerFunc { return h.GetReport },
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "unreadable snapshot",
			setupMock: func(m *mockSource) {
				m.On("Latest", mock.Anything).Return(domain.AggregateReport{}, errors.New("corrupt"))
			},
			handler:        func(h *Handler) http.HandlerFunc { return h.GetMeta },
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(mockSource)
			tt.setupMock(src)
			h := NewHandler(src)

			rec := httptest.NewRecorder()
			tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.check != nil {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				tt.check(t, rec.Body.Bytes())
			}
			src.AssertExpectations(t)
		})
	}
}
