package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/soma/engine/audio"
	"github.com/spaghettifunk/soma/engine/config"
	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/resources"
)

// AudioSystem is the reference-counted audio clip cache. Static clips are
// realized as one backend buffer holding all the PCM data; streaming clips
// get a ring of buffers primed with the first windows of the data, refilled
// on demand as playback consumes them.
type AudioSystem struct {
	graph *Graph[*resources.SoundData, *resources.AudioClip]
}

type audioLoader struct {
	backend     audio.Backend
	bufferCount int
	bufferSize  int

	// Streaming state per live clip: the source PCM and the read cursor.
	mu      sync.Mutex
	streams map[*resources.AudioClip]*streamState
}

type streamState struct {
	pcm    []byte
	cursor int
}

func NewAudioSystem(backend audio.Backend, cfg *config.Config, ids *core.IdentityAllocator, registry *ReleaseRegistry) (*AudioSystem, error) {
	if backend == nil || cfg == nil {
		return nil, fmt.Errorf("func NewAudioSystem - backend and config are required: %w", core.ErrInvalidArgument)
	}
	loader := &audioLoader{
		backend:     backend,
		bufferCount: cfg.Audio.StreamBufferCount,
		bufferSize:  cfg.Audio.StreamBufferSize,
		streams:     make(map[*resources.AudioClip]*streamState),
	}
	graph, err := NewGraph[*resources.SoundData, *resources.AudioClip](resources.KindAudio, loader, ids, registry)
	if err != nil {
		return nil, err
	}
	return &AudioSystem{graph: graph}, nil
}

// Acquire references the clip under the given key, realizing its backend
// buffers on first use.
func (as *AudioSystem) Acquire(key string, data *resources.SoundData) (Ref[*resources.AudioClip], error) {
	return as.graph.Reference(key, []*resources.SoundData{data}, nil)
}

// Release drops one reference; the backend buffers are destroyed when the
// last reference goes away.
func (as *AudioSystem) Release(ref Ref[*resources.AudioClip]) error {
	return as.graph.Unreference(ref)
}

// Refill replaces a consumed streaming buffer with the next PCM window of
// the clip, wrapping around at the end of the data.
func (as *AudioSystem) Refill(ref Ref[*resources.AudioClip], handle resources.AudioBufferHandle) error {
	loader := as.graph.loader.(*audioLoader)
	return loader.refill(ref.Resource, handle)
}

func (al *audioLoader) SupportsCount(n int) bool {
	return n == 1
}

func (al *audioLoader) Load(key string, media []*resources.SoundData, _ []string) (*resources.AudioClip, []Dependency, error) {
	data := media[0]
	if data == nil || len(data.PCM) == 0 {
		return nil, nil, fmt.Errorf("audio '%s': empty PCM data: %w", key, core.ErrInvalidArgument)
	}

	clip := &resources.AudioClip{
		Name:       key,
		Format:     data.Format,
		SampleRate: data.SampleRate,
		Streaming:  data.Streaming,
	}

	if !data.Streaming {
		handle, err := al.backend.BufferCreate(data.PCM, data.Format, data.SampleRate)
		if err != nil {
			return nil, nil, &core.LoadError{Kind: resources.KindAudio, Key: key, Diag: err.Error(), Err: err}
		}
		clip.Buffers = []resources.AudioBufferHandle{handle}
		return clip, nil, nil
	}

	// Prime the ring with the first windows of the data. A short clip still
	// gets the full ring; the windows wrap around.
	state := &streamState{pcm: data.PCM}
	clip.Buffers = make([]resources.AudioBufferHandle, 0, al.bufferCount)
	for i := 0; i < al.bufferCount; i++ {
		window := state.next(al.bufferSize)
		handle, err := al.backend.BufferCreate(window, data.Format, data.SampleRate)
		if err != nil {
			for _, h := range clip.Buffers {
				al.backend.BufferDestroy(h)
			}
			return nil, nil, &core.LoadError{Kind: resources.KindAudio, Key: key, Diag: err.Error(), Err: err}
		}
		clip.Buffers = append(clip.Buffers, handle)
	}

	al.mu.Lock()
	al.streams[clip] = state
	al.mu.Unlock()

	return clip, nil, nil
}

func (al *audioLoader) Unload(clip *resources.AudioClip) error {
	al.mu.Lock()
	delete(al.streams, clip)
	al.mu.Unlock()

	var err error
	for _, handle := range clip.Buffers {
		if e := al.backend.BufferDestroy(handle); e != nil && err == nil {
			err = fmt.Errorf("audio '%s': %w", clip.Name, e)
		}
	}
	return err
}

func (al *audioLoader) refill(clip *resources.AudioClip, handle resources.AudioBufferHandle) error {
	if clip == nil || !clip.Streaming {
		return fmt.Errorf("refill on non-streaming clip: %w", core.ErrInvalidArgument)
	}

	al.mu.Lock()
	state, ok := al.streams[clip]
	if !ok {
		al.mu.Unlock()
		return fmt.Errorf("audio '%s': %w", clip.Name, core.ErrUnknownHandle)
	}
	window := state.next(al.bufferSize)
	al.mu.Unlock()

	return al.backend.StreamRefill(handle, window)
}

// next returns the following window of at most size bytes, advancing the
// cursor and wrapping to the start at the end of the data.
func (s *streamState) next(size int) []byte {
	if s.cursor >= len(s.pcm) {
		s.cursor = 0
	}
	end := core.Clamp(s.cursor+size, 0, len(s.pcm))
	window := s.pcm[s.cursor:end]
	s.cursor = end
	return window
}
