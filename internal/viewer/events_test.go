package viewer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_FIFO(t *testing.T) {
	q := NewEventQueue()
	var got []int
	for i := 0; i < 3; i++ {
		i := i
		q.Post(func() { got = append(got, i) })
	}

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 0, q.Drain())
}

func TestEventQueue_PostDuringDrain(t *testing.T) {
	q := NewEventQueue()
	ran := 0
	q.Post(func() {
		ran++
		q.Post(func() { ran++ })
	})

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, 2, ran)
}

func TestEventQueue_ConcurrentPost(t *testing.T) {
	q := NewEventQueue()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Post(func() {})
		}()
	}
	wg.Wait()

	select {
	case <-q.Notify():
	default:
		t.Fatal("expected a wakeup after Post")
	}
	assert.Equal(t, 50, q.Drain())
}

func TestHandle(t *testing.T) {
	ctx, _, _ := testContext(t, defaultOptions())
	require.True(t, ctx.LoadMesh(triangleMesh("a", 1)))

	require.NoError(t, ctx.Handle(UIEvent{Kind: EventToggleAxes, On: false}))
	assert.Empty(t, ctx.Scene().GroupsOfKind(GroupAxes))

	require.NoError(t, ctx.Handle(UIEvent{Kind: EventToggleWireframe, On: false}))
	assert.False(t, ctx.Toggles().Wireframe)

	require.NoError(t, ctx.Handle(UIEvent{Kind: EventToggleNormals, On: true}))
	assert.True(t, ctx.Toggles().Normals)

	require.NoError(t, ctx.Handle(UIEvent{Kind: EventSetShadingMode, Mode: ShadingBump}))
	assert.Equal(t, ShadingBump, ctx.Controller().Mode())

	require.NoError(t, ctx.Handle(UIEvent{Kind: EventSetOverlayScale, Value: 3}))
	assert.Equal(t, float32(3), ctx.Controller().OverlayScale())

	require.NoError(t, ctx.Handle(UIEvent{Kind: EventSetFixLightsToCamera, On: true}))
	assert.True(t, ctx.Toggles().FixLightsToCamera)

	require.NoError(t, ctx.Handle(UIEvent{Kind: EventSetNumericUniform, Name: UniformExposure, Value: 1}))
	assert.Equal(t, float32(2), floatUniform(t, ctx.Bank().Material(BumpShaded), UniformExposure))

	assert.Error(t, ctx.Handle(UIEvent{Kind: EventKind(99)}))
	assert.Equal(t, "EventKind(99)", EventKind(99).String())
}

func TestHandle_ShadingModeUnavailable(t *testing.T) {
	opts := defaultOptions()
	opts.Displacement = false
	ctx, _, logs := testContext(t, opts)

	err := ctx.Handle(UIEvent{Kind: EventSetShadingMode, Mode: ShadingBump})
	assert.ErrorIs(t, err, ErrBumpUnavailable)
	assert.Equal(t, 1, logs.FilterMessage("cannot change shading mode").Len())
}
