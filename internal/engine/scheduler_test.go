package engine

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeMocks "github.com/marcofalcone/basket-deal-tracker/internal/store/mocks"
)

func TestNewScheduler(t *testing.T) {
	t.Parallel()

	eng := NewEngine(storeMocks.NewMockStore(t), &stubExtractor{})
	s, err := NewScheduler(eng, 30*time.Minute, slog.Default())
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 1)

	s.Start()
	<-s.Stop().Done()
}
