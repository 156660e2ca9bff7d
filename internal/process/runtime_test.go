package process

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevan/slight/internal/value"
)

func TestNewRuntimeRegistersMainAsPidZero(t *testing.T) {
	rt := NewRuntime()
	assert.True(t, rt.IsAlive(0))
	assert.Contains(t, rt.Pids(), 0)
}

func TestSendAndRecvDeliverInFIFOOrder(t *testing.T) {
	rt := NewRuntime()
	require.NoError(t, rt.Send(0, 0, value.Number{Value: 1}))
	require.NoError(t, rt.Send(0, 0, value.Number{Value: 2}))

	msg, ok := rt.Recv(0, 0, false)
	require.True(t, ok)
	assert.Equal(t, value.Number{Value: 1}, msg.Value)

	msg, ok = rt.Recv(0, 0, false)
	require.True(t, ok)
	assert.Equal(t, value.Number{Value: 2}, msg.Value)
}

func TestSendToUnknownOrDeadPidErrors(t *testing.T) {
	rt := NewRuntime()
	err := rt.Send(0, 999, value.Nil{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")
}

func TestSendAutoRegistersUnknownSender(t *testing.T) {
	rt := NewRuntime()
	require.NoError(t, rt.Send(42, 0, value.Number{Value: 7}))
	assert.True(t, rt.IsAlive(42))
}

func TestRecvBlocksUntilMessageArrives(t *testing.T) {
	rt := NewRuntime()
	done := make(chan Message, 1)
	go func() {
		msg, ok := rt.Recv(0, 0, false)
		require.True(t, ok)
		done <- msg
	}()

	time.Sleep(20 * time.Millisecond) // give the receiver time to start blocking
	require.NoError(t, rt.Send(0, 0, value.String{Value: "hi"}))

	select {
	case msg := <-done:
		assert.Equal(t, value.String{Value: "hi"}, msg.Value)
	case <-time.After(time.Second):
		t.Fatal("recv never returned after send")
	}
}

func TestRecvWithTimeoutExpiresWhenNothingArrives(t *testing.T) {
	rt := NewRuntime()
	start := time.Now()
	_, ok := rt.Recv(0, 30*time.Millisecond, true)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestKillIsCooperativeAndMarksCompleted(t *testing.T) {
	rt := NewRuntime()
	h := rt.allocate()
	assert.True(t, rt.IsAlive(h.Pid))
	assert.True(t, rt.Kill(h.Pid))
	assert.False(t, rt.IsAlive(h.Pid))
}

func TestKillUnknownPidReturnsFalse(t *testing.T) {
	rt := NewRuntime()
	assert.False(t, rt.Kill(12345))
}
