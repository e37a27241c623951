package systems

import (
	"errors"
	"sync"

	"github.com/spaghettifunk/soma/engine/geometry"
	"github.com/spaghettifunk/soma/engine/renderer"
	"github.com/spaghettifunk/soma/engine/resources"
)

// fakeRenderBackend records every creation and destruction for assertions.
type fakeRenderBackend struct {
	mu   sync.Mutex
	next uint32

	textures   map[resources.TextureHandle]*resources.Image
	programs   map[resources.ProgramHandle][]resources.ShaderStage
	geometries map[resources.VertexArrayHandle][]byte

	destroyedTextures   int
	destroyedPrograms   int
	destroyedGeometries int

	failShaderDiag string
}

func newFakeRenderBackend() *fakeRenderBackend {
	return &fakeRenderBackend{
		textures:   make(map[resources.TextureHandle]*resources.Image),
		programs:   make(map[resources.ProgramHandle][]resources.ShaderStage),
		geometries: make(map[resources.VertexArrayHandle][]byte),
	}
}

func (b *fakeRenderBackend) handle() uint32 {
	b.next++
	return b.next
}

func (b *fakeRenderBackend) TextureCreate(img *resources.Image, _ resources.TextureType, _ renderer.SamplerOptions) (resources.TextureHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := resources.TextureHandle(b.handle())
	b.textures[h] = img
	return h, nil
}

func (b *fakeRenderBackend) TextureDestroy(handle resources.TextureHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.textures[handle]; !ok {
		return errors.New("unknown texture handle")
	}
	delete(b.textures, handle)
	b.destroyedTextures++
	return nil
}

func (b *fakeRenderBackend) CreateGeometry(vertexData []byte, _ *geometry.AttributeLayout, _ int, _ []uint32) (resources.GeometryBuffers, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	buffers := resources.GeometryBuffers{
		VertexArray:  resources.VertexArrayHandle(b.handle()),
		VertexBuffer: resources.BufferHandle(b.handle()),
		IndexBuffer:  resources.BufferHandle(b.handle()),
	}
	b.geometries[buffers.VertexArray] = vertexData
	return buffers, nil
}

func (b *fakeRenderBackend) DestroyGeometry(buffers resources.GeometryBuffers) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.geometries[buffers.VertexArray]; !ok {
		return errors.New("unknown geometry")
	}
	delete(b.geometries, buffers.VertexArray)
	b.destroyedGeometries++
	return nil
}

func (b *fakeRenderBackend) ShaderCreate(_ string, stages []resources.ShaderStage) (resources.ProgramHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failShaderDiag != "" {
		return 0, errors.New(b.failShaderDiag)
	}
	h := resources.ProgramHandle(b.handle())
	b.programs[h] = stages
	return h, nil
}

func (b *fakeRenderBackend) ShaderDestroy(program resources.ProgramHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.programs[program]; !ok {
		return errors.New("unknown program")
	}
	delete(b.programs, program)
	b.destroyedPrograms++
	return nil
}

// fakeAudioBackend records buffer creations and refills.
type fakeAudioBackend struct {
	mu   sync.Mutex
	next uint32

	buffers map[resources.AudioBufferHandle][]byte
	refills []resources.AudioBufferHandle

	destroyed int
}

func newFakeAudioBackend() *fakeAudioBackend {
	return &fakeAudioBackend{buffers: make(map[resources.AudioBufferHandle][]byte)}
}

func (b *fakeAudioBackend) BufferCreate(pcm []byte, _ resources.SoundFormat, _ int) (resources.AudioBufferHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	h := resources.AudioBufferHandle(b.next)
	b.buffers[h] = pcm
	return h, nil
}

func (b *fakeAudioBackend) BufferDestroy(handle resources.AudioBufferHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.buffers[handle]; !ok {
		return errors.New("unknown audio buffer")
	}
	delete(b.buffers, handle)
	b.destroyed++
	return nil
}

func (b *fakeAudioBackend) StreamRefill(handle resources.AudioBufferHandle, pcm []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.buffers[handle]; !ok {
		return errors.New("unknown audio buffer")
	}
	b.buffers[handle] = pcm
	b.refills = append(b.refills, handle)
	return nil
}
