package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"babel/internal/logging"
	"babel/internal/segment"
)

// SystemPrompt instructs the model to produce colloquial podcast Chinese,
// one translated line per numbered source line.
const SystemPrompt = "你是一位专业的播客翻译。请将以下英文播客内容翻译成中文。\n" +
	"要求：\n" +
	"1. 保持口语化、自然的播客风格\n" +
	"2. 人名可保留英文或音译\n" +
	"3. 只返回翻译后的文本，每行对应一个原文片段\n" +
	"4. 不要添加任何解释或标注"

const defaultBatchSize = 20

// Segments translates every segment's text into Chinese, returning a new
// slice with TextZH populated. Lines the model reply does not cover fall
// back to the original English text.
func (c *Client) Segments(ctx context.Context, logger *slog.Logger, segments []segment.Segment) ([]segment.Segment, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	batchSize := c.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	translated := make([]segment.Segment, len(segments))
	copy(translated, segments)

	for start := 0; start < len(segments); start += batchSize {
		end := min(start+batchSize, len(segments))
		batch := segments[start:end]

		reply, err := c.complete(ctx, SystemPrompt, buildBatchPrompt(batch))
		if err != nil {
			return nil, fmt.Errorf("translate batch at segment %d: %w", start, err)
		}

		parsed := parseNumberedLines(reply)
		for j := range batch {
			if j < len(parsed) {
				translated[start+j].TextZH = parsed[j]
				continue
			}
			translated[start+j].TextZH = batch[j].Text
			logger.Warn("translation missing for segment, keeping original",
				logging.Int("segment_index", start+j))
		}
	}
	return translated, nil
}

func buildBatchPrompt(batch []segment.Segment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "请翻译以下 %d 个片段（保持编号对应）：\n\n", len(batch))
	for i, seg := range batch {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, seg.Text)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// numberSeparators are the list markers models emit after the line number.
var numberSeparators = []string{". ", "、", "。", ") ", "） "}

// parseNumberedLines strips leading "1. ", "2、" style markers from each
// non-empty reply line. Lines without a digit prefix pass through intact.
func parseNumberedLines(reply string) []string {
	var parsed []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, sep := range numberSeparators {
			idx := strings.Index(line, sep)
			if idx > 0 && isDigits(line[:idx]) {
				line = line[idx+len(sep):]
				break
			}
		}
		parsed = append(parsed, line)
	}
	return parsed
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
