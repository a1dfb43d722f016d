package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/LeadForm/internal/eventbus"
	"github.com/Rorical/LeadForm/internal/update"
)

func TestListenForCoreEvents(t *testing.T) {
	t.Parallel()

	eb := eventbus.NewEventBus()
	defer eb.Close()
	d := NewEventDispatcher(eb)
	defer d.Stop()

	require.NoError(t, eb.SendToUI(eventbus.EndpointStatusEvent{Message: "hi"}))

	msg := d.ListenForCoreEvents()()
	coreMsg, ok := msg.(update.CoreEventMsg)
	require.True(t, ok)
	assert.Equal(t, eventbus.EndpointStatusEvent{Message: "hi"}, coreMsg.Event)
	assert.Same(t, eb, d.GetEventBus())
}

func TestListenForCoreEvents_Stopped(t *testing.T) {
	t.Parallel()

	eb := eventbus.NewEventBus()
	defer eb.Close()
	d := NewEventDispatcher(eb)
	d.Stop()

	assert.Nil(t, d.ListenForCoreEvents()())
}

func TestListenForCoreEvents_ClosedBus(t *testing.T) {
	t.Parallel()

	eb := eventbus.NewEventBus()
	d := NewEventDispatcher(eb)
	defer d.Stop()
	eb.Close()

	assert.Nil(t, d.ListenForCoreEvents()())
}
