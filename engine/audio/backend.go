package audio

import (
	"github.com/spaghettifunk/soma/engine/resources"
)

// Backend is the audio collaborator contract. Implementations accept PCM
// byte buffers and return opaque buffer identifiers. Like the graphics
// backend, buffer creation and destruction belong to one backend-owning
// thread by caller contract.
type Backend interface {
	BufferCreate(pcm []byte, format resources.SoundFormat, sampleRate int) (resources.AudioBufferHandle, error)
	BufferDestroy(handle resources.AudioBufferHandle) error

	// StreamRefill replaces the data of a buffer already queued for
	// playback with the next PCM window of a streaming clip.
	StreamRefill(handle resources.AudioBufferHandle, pcm []byte) error
}
