//go:build !tinygo && !baremetal

// Package udp stands in for the radio on a host: frames go to a UDP
// multicast group, so every instance on the LAN (or the same machine)
// hears every other one, as handsets in range would.
package udp

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	proto "github.com/ystepanoff/morsechat/protocol"
	"github.com/ystepanoff/morsechat/transport"
)

const DefaultGroup = "239.77.77.77:47000"

// Driver sends and receives frames on a multicast group. The radio
// channel is folded into the port so peers on other channels stay silent.
type Driver struct {
	group *net.UDPAddr
	ifi   *net.Interface
	log   *zap.Logger

	mu  sync.Mutex
	in  *net.UDPConn
	out *net.UDPConn
	buf [proto.MaxFrameSize]byte
}

var _ transport.RadioDriver = (*Driver)(nil)

// New resolves group ("host:port") and the optional interface name. No
// sockets are opened until Configure.
func New(group, iface string, log *zap.Logger) (*Driver, error) {
	if group == "" {
		group = DefaultGroup
	}
	addr, err := net.ResolveUDPAddr("udp4", group)
	if err != nil {
		return nil, fmt.Errorf("resolve group %q: %w", group, err)
	}
	if !addr.IP.IsMulticast() {
		return nil, fmt.Errorf("group %s is not a multicast address", addr.IP)
	}

	var ifi *net.Interface
	if iface != "" {
		if ifi, err = net.InterfaceByName(iface); err != nil {
			return nil, fmt.Errorf("interface %q: %w", iface, err)
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{group: addr, ifi: ifi, log: log.Named("udp")}, nil
}

func (d *Driver) Configure(address uint32, prefix byte, channel uint8) error {
	if channel > proto.MaxChannel {
		return proto.ErrInvalidChannel
	}

	addr := &net.UDPAddr{IP: d.group.IP, Port: d.group.Port + int(channel)}

	in, err := net.ListenMulticastUDP("udp4", d.ifi, addr)
	if err != nil {
		return fmt.Errorf("join %s: %w", addr, err)
	}
	out, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		in.Close()
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	d.mu.Lock()
	old := []*net.UDPConn{d.in, d.out}
	d.in, d.out = in, out
	d.mu.Unlock()

	for _, c := range old {
		if c != nil {
			c.Close()
		}
	}
	d.log.Debug("joined multicast group", zap.Stringer("addr", addr))
	return nil
}

func (d *Driver) Tx(data []byte) error {
	d.mu.Lock()
	out := d.out
	d.mu.Unlock()
	if out == nil {
		return net.ErrClosed
	}
	_, err := out.Write(data)
	return err
}

// Rx is only called from one goroutine (the link's listen loop).
func (d *Driver) Rx(timeout time.Duration) ([]byte, error) {
	d.mu.Lock()
	in := d.in
	d.mu.Unlock()
	if in == nil {
		return nil, net.ErrClosed
	}

	if err := in.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	n, _, err := in.ReadFromUDP(d.buf[:])
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, proto.ErrTimeout
		}
		return nil, err
	}

	out := make([]byte, n)
	copy(out, d.buf[:n])
	return out, nil
}

// Close leaves the group. Pending Rx calls return net.ErrClosed.
func (d *Driver) Close() error {
	d.mu.Lock()
	in, out := d.in, d.out
	d.in, d.out = nil, nil
	d.mu.Unlock()

	var errs []error
	if in != nil {
		errs = append(errs, in.Close())
	}
	if out != nil {
		errs = append(errs, out.Close())
	}
	return errors.Join(errs...)
}
