package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/soma/engine/assets/loaders"
	"github.com/spaghettifunk/soma/engine/core"
	"github.com/spaghettifunk/soma/engine/resources"
)

// AssetType classifies files found under the asset root.
type AssetType int

const (
	AssetTypeNone AssetType = iota
	AssetTypeImage
	AssetTypeShader
	AssetTypeFont
	AssetTypeAudio
	AssetTypeModel
)

type AssetInfo struct {
	Path       string
	Type       AssetType
	LastLoaded time.Time
}

// AssetManager keeps an index of the files under the asset root and watches
// it for changes, so edited assets can be reloaded on the next acquisition.
// Decoding goes through the typed source loaders; the manager never
// interprets media bytes itself beyond classification by extension.
type AssetManager struct {
	assets map[string]AssetInfo

	imageLoader  loaders.ImageLoader
	shaderLoader loaders.ShaderLoader

	shaderExtension string

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager(shaderExtension string) (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:          make(map[string]AssetInfo),
		shaderExtension: shaderExtension,
		fsnotify:        fsWatch,
		done:            make(chan struct{}),
	}, nil
}

// Initialize indexes the asset root and starts watching it recursively.
func (am *AssetManager) Initialize(assetsDir string) error {
	go am.start()

	if err := am.addRecursive(assetsDir); err != nil {
		return err
	}

	return nil
}

// Shutdown stops the watcher goroutine.
func (am *AssetManager) Shutdown() {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if !am.isClosed {
		am.isClosed = true
		close(am.done)
	}
}

// LoadImage decodes one image file into raw pixel data.
func (am *AssetManager) LoadImage(path string) (*resources.Image, error) {
	am.touch(path)
	return am.imageLoader.Load(path)
}

// LoadShaderStage reads one shader stage source. The file is looked up as
// <dir>/<name>.<stage><extension>, following the configured extension.
func (am *AssetManager) LoadShaderStage(dir, name, stage string) (resources.ShaderStage, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s.%s%s", name, stage, am.shaderExtension))
	am.touch(path)
	return am.shaderLoader.Load(path, stage)
}

func (am *AssetManager) touch(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	if asset, exists := am.assets[path]; exists {
		asset.LastLoaded = time.Now()
		am.assets[path] = asset
	}
}

// addRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	return am.watchRecursive(name, false)
}

func (am *AssetManager) start() {
	for {
		select {

		case e := <-am.fsnotify.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					am.watchRecursive(e.Name, false)
				}
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// Can't stat a deleted directory, so just try to remove it from
			// the watch list either way.
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
				am.fsnotify.Remove(e.Name)
			}

		case e := <-am.fsnotify.Errors:
			if e != nil {
				core.LogError(e.Error())
			}

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				if err = am.fsnotify.Remove(walkPath); err != nil {
					return err
				}
			} else {
				if err = am.fsnotify.Add(walkPath); err != nil {
					return err
				}
			}
		} else {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	assetType := am.determineAssetType(path)
	if assetType == AssetTypeNone {
		return
	}
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

func (am *AssetManager) determineAssetType(path string) AssetType {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == am.shaderExtension {
		return AssetTypeShader
	}
	switch ext {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".tga":
		return AssetTypeImage
	case ".fnt":
		return AssetTypeFont
	case ".wav", ".ogg":
		return AssetTypeAudio
	case ".obj", ".gltf", ".glb":
		return AssetTypeModel
	default:
		return AssetTypeNone
	}
}
