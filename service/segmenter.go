package service

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/orthoime/medicase-be/types"
)

const DefaultChunkSize = 50

// Segmenter splits a PDF into standalone chunks of at most chunkSize pages
// so each chunk fits inside one multimodal model request.
type Segmenter struct {
	chunkSize int
	conf      *model.Configuration
}

func NewSegmenter(chunkSize int) *Segmenter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Segmenter{
		chunkSize: chunkSize,
		conf:      conf,
	}
}

// pageRange is a 1-based inclusive page interval.
type pageRange struct {
	first int
	last  int
}

// chunkRanges computes the consecutive page intervals covering 1..totalPages
// with at most chunkSize pages each.
func chunkRanges(totalPages, chunkSize int) []pageRange {
	if totalPages <= 0 {
		return nil
	}
	ranges := make([]pageRange, 0, (totalPages+chunkSize-1)/chunkSize)
	for first := 1; first <= totalPages; first += chunkSize {
		last := first + chunkSize - 1
		if last > totalPages {
			last = totalPages
		}
		ranges = append(ranges, pageRange{first: first, last: last})
	}
	return ranges
}

// Split parses the document and returns its page count and chunks in page
// order. Unparseable input yields a MalformedInputError; documents with at
// most chunkSize pages come back as a single chunk holding the original
// bytes untouched.
func (s *Segmenter) Split(data []byte) (int, []types.Chunk, error) {
	if len(data) == 0 {
		return 0, nil, &types.MalformedInputError{Reason: "empty document"}
	}

	totalPages, err := api.PageCount(bytes.NewReader(data), s.conf)
	if err != nil {
		return 0, nil, &types.MalformedInputError{Reason: "failed to parse PDF", Err: err}
	}
	if totalPages == 0 {
		return 0, nil, nil
	}

	if totalPages <= s.chunkSize {
		return totalPages, []types.Chunk{
			{Index: 0, FirstPage: 1, LastPage: totalPages, Data: data},
		}, nil
	}

	ranges := chunkRanges(totalPages, s.chunkSize)
	chunks := make([]types.Chunk, 0, len(ranges))
	for i, r := range ranges {
		var buf bytes.Buffer
		selection := []string{fmt.Sprintf("%d-%d", r.first, r.last)}
		if err := api.Trim(bytes.NewReader(data), &buf, selection, s.conf); err != nil {
			return 0, nil, &types.MalformedInputError{
				Reason: fmt.Sprintf("failed to split pages %d-%d", r.first, r.last),
				Err:    err,
			}
		}
		chunks = append(chunks, types.Chunk{
			Index:     i,
			FirstPage: r.first,
			LastPage:  r.last,
			Data:      buf.Bytes(),
		})
	}
	return totalPages, chunks, nil
}
