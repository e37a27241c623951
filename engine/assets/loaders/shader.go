package loaders

import (
	"os"

	"github.com/spaghettifunk/soma/engine/resources"
)

// ShaderLoader reads shader stage source files.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path, stage string) (resources.ShaderStage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return resources.ShaderStage{}, err
	}
	return resources.ShaderStage{
		Stage:  stage,
		Source: string(data),
	}, nil
}
