package output

import (
	"sync"

	"codeberg.org/mutker/sstat/internal/errors"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// xrootSink sets WM_NAME on the root window of the default screen, where
// dwm and similar window managers read their status text.
type xrootSink struct {
	conn *xgb.Conn
	root xproto.Window
	once sync.Once
}

// OpenXRoot connects to $DISPLAY.
func OpenXRoot() (Sink, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrOpenSink, err)
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)

	return &xrootSink{conn: conn, root: screen.Root}, nil
}

func (s *xrootSink) Publish(text string) error {
	var err error
	if text == "" {
		err = xproto.DeletePropertyChecked(s.conn, s.root, xproto.AtomWmName).Check()
	} else {
		b := []byte(text)
		err = xproto.ChangePropertyChecked(s.conn, xproto.PropModeReplace, s.root,
			xproto.AtomWmName, xproto.AtomString, 8, uint32(len(b)), b).Check()
	}
	if err != nil {
		return errors.New().Wrap(errors.ErrPublish, err)
	}

	return nil
}

func (s *xrootSink) Close() error {
	s.once.Do(s.conn.Close)
	return nil
}
