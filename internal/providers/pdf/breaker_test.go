package pdf_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/smallbiznis/facture/internal/providers/pdf"
	"github.com/smallbiznis/facture/internal/providers/pdf/mocks"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerEngineFallsBackAndTrips(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockEngine(ctrl)
	fallback := mocks.NewMockEngine(ctrl)

	primary.EXPECT().Name().Return("chromium").AnyTimes()
	fallback.EXPECT().Name().Return("maroto").AnyTimes()
	primary.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil, errors.New("browser crashed")).Times(2)
	fallback.EXPECT().Render(gomock.Any(), gomock.Any()).Return([]byte("%PDF-native"), nil).Times(3)

	engine := pdf.NewBreakerEngine(primary, fallback, pdf.BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute}, nil)

	for i := 0; i < 3; i++ {
		buf, used, err := engine.RenderWith(context.Background(), pdf.Document{})
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-native"), buf)
		assert.Equal(t, "maroto", used)
	}
	assert.Equal(t, gobreaker.StateOpen, engine.State())
}

func TestBreakerEngineUsesPrimaryWhenHealthy(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockEngine(ctrl)
	fallback := mocks.NewMockEngine(ctrl)

	primary.EXPECT().Name().Return("chromium").AnyTimes()
	primary.EXPECT().Render(gomock.Any(), gomock.Any()).Return([]byte("%PDF-chromium"), nil)

	engine := pdf.NewBreakerEngine(primary, fallback, pdf.BreakerConfig{}, nil)
	buf, used, err := engine.RenderWith(context.Background(), pdf.Document{})
	require.NoError(t, err)
	assert.Equal(t, "chromium", used)
	assert.Equal(t, []byte("%PDF-chromium"), buf)
	assert.Equal(t, "chromium", engine.Name())
}

func TestBreakerEngineJoinsErrorsWhenBothFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockEngine(ctrl)
	fallback := mocks.NewMockEngine(ctrl)
	errPrimary := errors.New("primary down")
	errFallback := errors.New("fallback down")

	primary.EXPECT().Name().Return("chromium").AnyTimes()
	fallback.EXPECT().Name().Return("maroto").AnyTimes()
	primary.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil, errPrimary)
	fallback.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil, errFallback)

	_, err := pdf.NewBreakerEngine(primary, fallback, pdf.BreakerConfig{}, nil).Render(context.Background(), pdf.Document{})
	assert.ErrorIs(t, err, errPrimary)
	assert.ErrorIs(t, err, errFallback)
}

func TestBreakerEngineClosesBothEngines(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockEngine(ctrl)
	fallback := mocks.NewMockEngine(ctrl)

	primary.EXPECT().Name().Return("chromium").AnyTimes()
	primary.EXPECT().Close(gomock.Any()).Return(nil)
	fallback.EXPECT().Close(gomock.Any()).Return(nil)

	assert.NoError(t, pdf.NewBreakerEngine(primary, fallback, pdf.BreakerConfig{}, nil).Close(context.Background()))
}
