// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/blog-agents/internal/ui"
	"github.com/pdiddy/blog-agents/pkg/types"
)

// errNoSelection is returned when input ends before a valid choice.
var errNoSelection = errors.New("no topic selected")

// stdinSelector asks the user to pick a topic by number. An empty line
// picks the first topic.
type stdinSelector struct {
	In  io.Reader
	Out io.Writer
}

func (s *stdinSelector) SelectTopic(ctx context.Context, topics []types.TopicSuggestion) (types.TopicSuggestion, error) {
	if len(topics) == 0 {
		return types.TopicSuggestion{}, errNoSelection
	}
	fmt.Fprintln(s.Out, ui.TopicList(topics))
	idx, err := choose(s.In, s.Out, fmt.Sprintf("주제 번호를 선택하세요 [1-%d, 기본 1]: ", len(topics)), len(topics))
	if err != nil {
		return types.TopicSuggestion{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.TopicSuggestion{}, err
	}
	return topics[idx], nil
}

// choose prompts until a number in [1, n] or an empty line is read and
// returns the zero-based index.
func choose(in io.Reader, out io.Writer, prompt string, n int) (int, error) {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, errNoSelection
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			return 0, nil
		}
		i, err := strconv.Atoi(line)
		if err == nil && i >= 1 && i <= n {
			return i - 1, nil
		}
		fmt.Fprintf(out, "1부터 %d 사이의 번호를 입력하세요.\n", n)
	}
}
