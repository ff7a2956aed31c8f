package session

import (
	"bufio"
	"io"
	"time"

	"github.com/disgoorg/json"
	"github.com/oomph-ac/frontline/oerror"
	"github.com/oomph-ac/frontline/protocol"
	"go.uber.org/atomic"
)

const CurrentRecordingVer = "1"

// Direction is the direction a recorded frame travelled in.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// RecordingHeader describes the session a recording was made of.
type RecordingHeader struct {
	SessionID string    `json:"sessionId"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	StartedAt time.Time `json:"startedAt"`
}

// recordedFrame is a single line of a recording. Text frames are stored as they are, binary frames as
// base64.
type recordedFrame struct {
	Time   int64           `json:"time"`
	Dir    Direction       `json:"dir"`
	Text   json.RawMessage `json:"text,omitempty"`
	Binary []byte          `json:"binary,omitempty"`
}

// Recorder writes the frames of a session to a file, one JSON object per line, behind a header made of
// the recording version and the RecordingHeader. Frames are queued and written by Run.
type Recorder struct {
	w      io.WriteCloser
	buf    *bufio.Writer
	queue  chan recordedFrame
	done   chan struct{}
	closed atomic.Bool
}

// NewRecorder writes the header of a recording to w and returns a recorder for the frames that follow.
func NewRecorder(w io.WriteCloser, header RecordingHeader) (*Recorder, error) {
	r := &Recorder{w: w, buf: bufio.NewWriter(w), queue: make(chan recordedFrame, 256), done: make(chan struct{})}

	r.buf.WriteString(CurrentRecordingVer + "\n")
	enc, err := json.Marshal(header)
	if err != nil {
		return nil, oerror.New("unable to encode recording header: %v", err)
	}
	r.buf.Write(enc)
	r.buf.WriteString("\n")
	return r, nil
}

// Record queues a frame to be written. Frames recorded after Close are dropped.
func (r *Recorder) Record(dir Direction, t time.Time, frame []byte, binary bool) {
	if r.closed.Load() {
		return
	}
	f := recordedFrame{Time: t.UnixNano(), Dir: dir}
	if binary {
		f.Binary = append([]byte(nil), frame...)
	} else {
		f.Text = append(json.RawMessage(nil), frame...)
	}
	select {
	case r.queue <- f:
	case <-r.done:
	}
}

// Run writes queued frames until Close is called, then writes what is left and closes the file.
func (r *Recorder) Run() {
	defer r.w.Close()
	for {
		select {
		case f := <-r.queue:
			r.write(f)
		case <-r.done:
			for {
				select {
				case f := <-r.queue:
					r.write(f)
				default:
					r.buf.Flush()
					return
				}
			}
		}
	}
}

func (r *Recorder) write(f recordedFrame) {
	enc, err := json.Marshal(f)
	if err != nil {
		return
	}
	r.buf.Write(enc)
	r.buf.WriteString("\n")
}

// Close stops the recorder. Run returns once the frames already queued are written.
func (r *Recorder) Close() {
	if r.closed.CompareAndSwap(false, true) {
		close(r.done)
	}
}

// RecordedMessage is a decoded frame of a recording. Exactly one of In and Out is set.
type RecordedMessage struct {
	Time time.Time
	In   protocol.Inbound
	Out  protocol.Outbound
}

// Recording is a decoded session recording.
type Recording struct {
	Version  string
	Header   RecordingHeader
	Messages []RecordedMessage
}

// DecodeRecording decodes a recording written by a Recorder. It returns an error if the recording could
// not be parsed, or if the version of the recording is not supported.
func DecodeRecording(r io.Reader) (*Recording, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)

	rec := &Recording{}
	if !sc.Scan() {
		return nil, oerror.New("recording is empty")
	}
	rec.Version = sc.Text()
	if rec.Version != CurrentRecordingVer {
		return nil, oerror.New("unsupported recording version: %s", rec.Version)
	}
	if !sc.Scan() {
		return nil, oerror.New("recording has no header")
	}
	if err := json.Unmarshal(sc.Bytes(), &rec.Header); err != nil {
		return nil, oerror.New("unable to decode recording header: %v", err)
	}

	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var f recordedFrame
		if err := json.Unmarshal(sc.Bytes(), &f); err != nil {
			return nil, oerror.New("unable to decode recorded frame: %v", err)
		}
		msg, err := f.decode()
		if err != nil {
			return nil, err
		}
		rec.Messages = append(rec.Messages, msg)
	}
	if err := sc.Err(); err != nil {
		return nil, oerror.New("unable to read recording: %v", err)
	}
	return rec, nil
}

func (f recordedFrame) decode() (RecordedMessage, error) {
	msg := RecordedMessage{Time: time.Unix(0, f.Time)}
	binary := len(f.Binary) > 0
	frame := []byte(f.Text)
	if binary {
		frame = f.Binary
	}

	var err error
	switch f.Dir {
	case DirectionIn:
		if binary {
			msg.In, err = protocol.DecodeBinary(frame)
		} else {
			msg.In, err = protocol.Decode(frame)
		}
	case DirectionOut:
		msg.Out, err = protocol.DecodeOutbound(frame, binary)
	default:
		err = oerror.New("unknown frame direction %q", f.Dir)
	}
	return msg, err
}
