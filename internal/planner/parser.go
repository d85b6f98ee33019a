// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package planner

import (
	"regexp"
	"strconv"
	"strings"
)

// PlanParser parses user-written plan text into ParsedIntents.
type PlanParser struct {
	numberedPattern *regexp.Regexp
	bulletPattern   *regexp.Regexp
	headerPattern   *regexp.Regexp
}

// NewPlanParser creates a new plan parser.
func NewPlanParser() *PlanParser {
	return &PlanParser{
		numberedPattern: regexp.MustCompile(`^(\d+)\.\s+(.+?)(\s*\[P(\d+)\])?\s*(\(depends on:\s*(\d+(?:,\s*\d+)*)\))?$`),
		bulletPattern:   regexp.MustCompile(`^[-*]\s+(.+?)(\s*\[P(\d+)\])?\s*(\(depends on:\s*(\d+(?:,\s*\d+)*)\))?$`),
		headerPattern:   regexp.MustCompile(`^##\s+Task\s+(\d+):\s+(.+)$`),
	}
}

// Parse extracts ParsedIntents from plan text.
func (p *PlanParser) Parse(input string) ([]ParsedIntent, error) {
	if strings.TrimSpace(input) == "" {
		return []ParsedIntent{}, nil
	}

	lines := strings.Split(input, "\n")
	var intents []ParsedIntent
	var current *ParsedIntent
	taskMap := make(map[int]int) // plan-text task number -> index in intents

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") && !p.headerPattern.MatchString(line) {
			continue
		}

		if matches := p.headerPattern.FindStringSubmatch(line); matches != nil {
			if current != nil {
				intents = append(intents, *current)
			}
			taskNum, _ := strconv.Atoi(matches[1])
			current = &ParsedIntent{Title: matches[2], Priority: 3}
			taskMap[taskNum] = len(intents)
			continue
		}

		if matches := p.numberedPattern.FindStringSubmatch(line); matches != nil {
			if current != nil {
				intents = append(intents, *current)
			}

			taskNum, _ := strconv.Atoi(matches[1])
			title := strings.TrimSpace(matches[2])
			priority := 3
			if matches[4] != "" {
				if pri, err := strconv.Atoi(matches[4]); err == nil {
					priority = pri
				}
			}

			var deps []int
			if matches[6] != "" {
				deps = parseDependencies(matches[6], taskMap)
			}

			current = &ParsedIntent{Title: title, Priority: priority, DependsOn: deps}
			taskMap[taskNum] = len(intents)
			continue
		}

		if matches := p.bulletPattern.FindStringSubmatch(line); matches != nil {
			if current != nil {
				intents = append(intents, *current)
			}

			title := strings.TrimSpace(matches[1])
			priority := 3
			if matches[3] != "" {
				if pri, err := strconv.Atoi(matches[3]); err == nil {
					priority = pri
				}
			}

			var deps []int
			if matches[5] != "" {
				deps = parseDependencies(matches[5], taskMap)
			}

			current = &ParsedIntent{Title: title, Priority: priority, DependsOn: deps}
			continue
		}

		if current != nil && strings.HasPrefix(line, "Description:") {
			current.Description = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		}
	}

	if current != nil {
		intents = append(intents, *current)
	}

	return intents, nil
}

func parseDependencies(depStr string, taskMap map[int]int) []int {
	parts := strings.Split(depStr, ",")
	var deps []int

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if num, err := strconv.Atoi(part); err == nil {
			if idx, ok := taskMap[num]; ok {
				deps = append(deps, idx)
			}
		}
	}

	return deps
}
