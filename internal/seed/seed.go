package seed

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adeptlearn/tutor-backend/internal/types"
)

const topicSeedEnv = "TOPIC_SEED_YAML"

//go:embed topics.yaml
var topicSeedFS embed.FS

// TopicNode is one node of the curriculum seed tree.
type TopicNode struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Difficulty  types.Difficulty `yaml:"difficulty"`
	Subtopics   []TopicNode      `yaml:"subtopics"`
}

type topicSeedFile struct {
	Topics []TopicNode `yaml:"topics"`
}

// DefaultTopics loads the seed tree, preferring the file named by
// TOPIC_SEED_YAML over the embedded default.
func DefaultTopics() ([]TopicNode, error) {
	data, err := readSeed()
	if err != nil {
		return nil, err
	}
	var file topicSeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse topic seed: %w", err)
	}
	for _, root := range file.Topics {
		if err := validateNode(root); err != nil {
			return nil, err
		}
	}
	return file.Topics, nil
}

func readSeed() ([]byte, error) {
	if path := os.Getenv(topicSeedEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}
	return topicSeedFS.ReadFile("topics.yaml")
}

func validateNode(n TopicNode) error {
	if n.Name == "" {
		return fmt.Errorf("topic seed: node with empty name")
	}
	if n.Difficulty != "" && !n.Difficulty.Valid() {
		return fmt.Errorf("topic seed: %s has unknown difficulty %q", n.Name, n.Difficulty)
	}
	for _, sub := range n.Subtopics {
		if err := validateNode(sub); err != nil {
			return err
		}
	}
	return nil
}
