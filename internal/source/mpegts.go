package source

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/asticode/go-astits"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h264"
	"github.com/google/uuid"

	"github.com/zsiec/facet/internal/errors"
	"github.com/zsiec/facet/internal/logger"
	"github.com/zsiec/facet/internal/media"
)

// TSSource demuxes the first video elementary stream of an MPEG-TS
// file into numbered packets. PTS values are in the 90kHz PES clock.
//
// MPEG-TS has no index, so Seek rewinds the file and rescans from the
// start, holding back at most one group of pictures: the packets since
// the last keyframe at or before the target PTS. Ordinals are counted
// from the file start on every scan, so a packet keeps its ordinal
// across seeks.
type TSSource struct {
	id   string
	path string
	log  logger.Logger

	file *os.File
	dmx  *astits.Demuxer

	videoPID   uint16
	streamType astits.StreamType
	pidKnown   bool

	nextOrdinal int64
	pending     []*media.Packet
}

// OpenTS opens an MPEG-TS file as a seekable packet source.
func OpenTS(path string, log logger.Logger) (*TSSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSourceError("opening mpegts file", err)
	}

	s := &TSSource{
		id:   uuid.New().String(),
		path: path,
		log:  log.WithField("component", "ts_source"),
		file: f,
	}
	s.dmx = astits.NewDemuxer(context.Background(), bufio.NewReader(f))
	return s, nil
}

// ID implements Source.
func (s *TSSource) ID() string {
	return s.id
}

// Demux implements Source.
func (s *TSSource) Demux() PacketReader {
	return &tsReader{src: s}
}

// Close implements Source.
func (s *TSSource) Close() error {
	s.pending = nil
	s.dmx = nil
	return s.file.Close()
}

// Seek implements SeekSource. It rewinds and rescans the file,
// buffering packets from the nearest keyframe at or before pts; the
// next reader yields that buffered window first and then continues
// demuxing. PTS values are assumed monotonic.
func (s *TSSource) Seek(pts int64) error {
	if err := s.rewind(); err != nil {
		return err
	}

	var window []*media.Packet
	for {
		p, err := s.readPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.NewSeekError("scanning for keyframe", err)
		}

		if p.Keyframe && p.HasPTS && p.PTS <= pts {
			// Later candidate keyframe: restart the held-back window.
			window = window[:0]
			window = append(window, p)
			continue
		}
		if p.HasPTS && p.PTS > pts {
			if window == nil {
				return errors.NewSeekError("no keyframe at or before target pts", nil).WithDetails(map[string]interface{}{
					"pts": pts,
				})
			}
			s.pending = append(window, p)
			return nil
		}
		if window != nil {
			window = append(window, p)
		}
	}

	if window == nil {
		return errors.NewSeekError("no keyframe at or before target pts", nil).WithDetails(map[string]interface{}{
			"pts": pts,
		})
	}
	s.pending = window
	return nil
}

func (s *TSSource) rewind() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return errors.NewSeekError("rewinding mpegts file", err)
	}
	s.dmx = astits.NewDemuxer(context.Background(), bufio.NewReader(s.file))
	s.nextOrdinal = 0
	s.pending = nil
	return nil
}

// readPacket pulls demuxer data until the next video PES packet.
func (s *TSSource) readPacket() (*media.Packet, error) {
	for {
		d, err := s.dmx.NextData()
		if err != nil {
			if stderrors.Is(err, astits.ErrNoMorePackets) {
				return nil, io.EOF
			}
			return nil, errors.NewSourceError("demuxing mpegts data", err)
		}

		if d.PMT != nil && !s.pidKnown {
			for _, es := range d.PMT.ElementaryStreams {
				if es.StreamType.IsVideo() {
					s.videoPID = es.ElementaryPID
					s.streamType = es.StreamType
					s.pidKnown = true
					s.log.WithFields(map[string]interface{}{
						"pid":         es.ElementaryPID,
						"stream_type": es.StreamType.String(),
					}).Debug("Video elementary stream found")
					break
				}
			}
			continue
		}

		if d.PES == nil || !s.pidKnown || d.PID != s.videoPID {
			continue
		}

		p := &media.Packet{
			Ordinal:  s.nextOrdinal,
			Size:     len(d.PES.Data),
			Data:     d.PES.Data,
			StreamID: s.id,
			TimeBase: media.TimeBase90kHz,
		}
		s.nextOrdinal++

		if oh := d.PES.Header.OptionalHeader; oh != nil && oh.PTS != nil {
			p.PTS = oh.PTS.Base
			p.HasPTS = true
		}
		p.Keyframe = s.isKeyframe(d)

		return p, nil
	}
}

// isKeyframe checks the transport-level random access indicator first
// and falls back to inspecting the H.264 access unit.
func (s *TSSource) isKeyframe(d *astits.DemuxerData) bool {
	if d.FirstPacket != nil && d.FirstPacket.AdaptationField != nil &&
		d.FirstPacket.AdaptationField.RandomAccessIndicator {
		return true
	}
	if s.streamType != astits.StreamTypeH264Video {
		return false
	}

	var au h264.AnnexB
	if err := au.Unmarshal(d.PES.Data); err != nil {
		return false
	}
	return h264.IsRandomAccess(au)
}

type tsReader struct {
	src *TSSource
}

func (r *tsReader) Next() (*media.Packet, error) {
	if len(r.src.pending) > 0 {
		p := r.src.pending[0]
		r.src.pending = r.src.pending[1:]
		return p, nil
	}
	return r.src.readPacket()
}
