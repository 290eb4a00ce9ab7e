package audio

import (
	"net"
	"sync/atomic"

	"github.com/jfreymuth/pulse/proto"
)

type pulseConn struct {
	client *proto.Client
	conn   net.Conn

	// Set by Subscribe, read on the client's reader goroutine.
	notify atomic.Pointer[func()]
	closed atomic.Pointer[func()]
}

// DialPulse connects to a PulseAudio or PipeWire-pulse server. The returned
// connection is already authenticated with the user's cookie, or with an
// anonymous one when none is installed.
func DialPulse(server string) (Conn, error) {
	client, conn, err := proto.Connect(server)
	if err != nil {
		return nil, err
	}

	return newPulseConn(client, conn), nil
}

// newPulseConn installs the event callback once. The server sends nothing
// unsolicited before Subscribe, so no event is missed.
func newPulseConn(client *proto.Client, conn net.Conn) *pulseConn {
	p := &pulseConn{client: client, conn: conn}
	client.Callback = p.dispatch

	return p
}

func (p *pulseConn) dispatch(msg interface{}) {
	var fn *func()
	switch msg.(type) {
	case *proto.SubscribeEvent:
		fn = p.notify.Load()
	case *proto.ConnectionClosed:
		fn = p.closed.Load()
	}

	if fn != nil {
		(*fn)()
	}
}

// Authorize is a no-op: proto.Connect has already exchanged the cookie and
// negotiated the protocol version.
func (p *pulseConn) Authorize() error {
	return nil
}

func (p *pulseConn) SetName(name string) error {
	props := proto.PropList{
		"application.name": proto.PropListString(name),
	}

	return p.client.Request(&proto.SetClientName{Props: props}, &proto.SetClientNameReply{})
}

func (p *pulseConn) Subscribe(notify, closed func()) error {
	p.notify.Store(&notify)
	p.closed.Store(&closed)

	mask := proto.SubscriptionMaskSink | proto.SubscriptionMaskSource | proto.SubscriptionMaskServer

	return p.client.Request(&proto.Subscribe{Mask: mask}, nil)
}

func (p *pulseConn) Defaults() (string, string, error) {
	var info proto.GetServerInfoReply
	if err := p.client.Request(&proto.GetServerInfo{}, &info); err != nil {
		return "", "", err
	}

	return info.DefaultSinkName, info.DefaultSourceName, nil
}

func (p *pulseConn) Sinks() ([]Device, error) {
	var reply proto.GetSinkInfoListReply
	if err := p.client.Request(&proto.GetSinkInfoList{}, &reply); err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(reply))
	for _, s := range reply {
		devices = append(devices, sinkDevice(s))
	}

	return devices, nil
}

func (p *pulseConn) Sources() ([]Device, error) {
	var reply proto.GetSourceInfoListReply
	if err := p.client.Request(&proto.GetSourceInfoList{}, &reply); err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(reply))
	for _, s := range reply {
		devices = append(devices, sourceDevice(s))
	}

	return devices, nil
}

func (p *pulseConn) Close() error {
	return p.conn.Close()
}

func sinkDevice(s *proto.GetSinkInfoReply) Device {
	return Device{
		Index:   s.SinkIndex,
		Name:    s.SinkName,
		Volumes: []uint32(s.ChannelVolumes),
		Mute:    s.Mute,
		Steps:   s.NumVolumeSteps,
	}
}

func sourceDevice(s *proto.GetSourceInfoReply) Device {
	return Device{
		Index:   s.SourceIndex,
		Name:    s.SourceName,
		Volumes: []uint32(s.ChannelVolumes),
		Mute:    s.Mute,
		Steps:   s.NumVolumeSteps,
	}
}
