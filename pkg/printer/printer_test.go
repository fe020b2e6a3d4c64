package printer

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentKeyValueJustifies(t *testing.T) {
	doc := NewDocument(20)
	doc.KeyValue("Total:", "50.00")

	out := doc.Bytes()
	assert.True(t, bytes.Contains(out, []byte("Total:         50.00\n")))
}

func TestDocumentItemLineWrapsLongNames(t *testing.T) {
	doc := NewDocument(20)
	doc.ItemLine("2.00", "Pisco sour extra large", "50.00")

	lines := bytes.Split(doc.Bytes()[2:], []byte{LF})
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Len(t, lines[0], 20)
	assert.True(t, bytes.HasSuffix(lines[0], []byte("50.00")))
	assert.True(t, bytes.HasPrefix(lines[1], []byte("      ")))
}

func TestNew(t *testing.T) {
	p, err := New("none", "", "", 0)
	require.NoError(t, err)
	assert.IsType(t, &BufferPrinter{}, p)

	_, err = New("usb", "", "", 0)
	assert.Error(t, err)

	_, err = New("bluetooth", "", "", 0)
	assert.Error(t, err)
}

func TestNetworkPrinterSendsBytes(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(conn)
		received <- buf.Bytes()
	}()

	p := NewNetworkPrinter(ln.Addr().String(), time.Second)
	require.NoError(t, p.Print([]byte("hello")))

	select {
	case got := <-received:
		assert.Equal(t, []byte("hello"), got)
	case <-time.After(2 * time.Second):
		t.Fatal("printer did not receive data")
	}
}
