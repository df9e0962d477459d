package port

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenTCP binds an OS-assigned TCP port for the duration of the test.
func listenTCP(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "failed to start test listener")
	t.Cleanup(func() { _ = listener.Close() })

	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	require.True(t, ok)
	return tcpAddr.Port
}

// freeTCPPort returns a port that was free a moment ago.
func freeTCPPort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

// TestIsPortAvailable_UsedPort verifies that a bound port is reported busy.
func TestIsPortAvailable_UsedPort(t *testing.T) {
	port := listenTCP(t)

	scanner := NewScanner()
	assert.False(t, scanner.IsPortAvailable(port, "tcp"), "port %d should be in use", port)
}

func TestIsPortAvailable_FreePort(t *testing.T) {
	port := freeTCPPort(t)
	assert.True(t, NewScanner().IsPortAvailable(port, "tcp"))
}

// TestIsPortAvailable_UDP verifies UDP probing.
func TestIsPortAvailable_UDP(t *testing.T) {
	conn, err := net.ListenPacket("udp", ":0")
	require.NoError(t, err, "failed to start test UDP listener")
	defer func() { _ = conn.Close() }()

	udpAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	require.True(t, ok)

	assert.False(t, NewScanner().IsPortAvailable(udpAddr.Port, "udp"))
}

func TestIsPortAvailable_UnknownProtocol(t *testing.T) {
	assert.False(t, NewScanner().IsPortAvailable(8000, "sctp"))
}

// TestBusyPorts verifies that only bound ports are returned, in input order.
func TestBusyPorts(t *testing.T) {
	busy := listenTCP(t)
	free := freeTCPPort(t)

	got := NewScanner().BusyPorts(free, busy)
	assert.Equal(t, []int{busy}, got)
}
