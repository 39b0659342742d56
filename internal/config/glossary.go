package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// GlossaryTerm 自动加入索引的词语
type GlossaryTerm struct {
	Word          string `toml:"word"`
	Entry         string `toml:"entry"`
	Subentry      string `toml:"subentry"`
	CaseSensitive bool   `toml:"case_sensitive"`
}

// Glossary 索引词表
type Glossary struct {
	Terms []GlossaryTerm `toml:"term"`
}

// LoadGlossary 从 TOML 文件加载索引词表
func LoadGlossary(path string) (*Glossary, error) {
	// check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("glossary file not found: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary file: %w", err)
	}
	return ParseGlossary(string(content))
}

// ParseGlossary 解析 TOML 格式的索引词表
func ParseGlossary(content string) (*Glossary, error) {
	glossary := &Glossary{}
	if _, err := toml.Decode(content, glossary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal glossary: %w", err)
	}
	for i, term := range glossary.Terms {
		if term.Word == "" {
			return nil, fmt.Errorf("glossary term %d is missing word", i+1)
		}
		if term.Entry == "" {
			glossary.Terms[i].Entry = term.Word
		}
	}
	return glossary, nil
}
