package regbridge

import (
	"github.com/auvred/regbridge/internal/backend"
	"github.com/auvred/regbridge/internal/encoding"
)

type backendEngine struct {
	program *backend.Program
	enc     encoding.Encoding
	subject *backend.Subject
}

func (e *backendEngine) reset(input []uint16) {
	e.subject = backend.NewSubject(encoding.NewText(e.enc, input))
}

func (e *backendEngine) search(start int, anchored bool) ([]int, []int, error) {
	text := e.subject.Text()
	startByte := text.StartByte(start)

	var region *backend.Region
	var err error
	if anchored {
		region, err = e.program.Match(e.subject, startByte)
	} else {
		region, err = e.program.Search(e.subject, startByte)
	}
	if err != nil || region == nil {
		return nil, nil, err
	}

	begin, end := unsetGroups(region.Len() - 1)
	// the whole match first, so that the window it leaves in the position
	// cache serves the groups inside it
	begin[0] = text.StringIndex(region.Begin[0])
	end[0] = text.StringIndex(region.End[0])
	text.Remember(begin[0], end[0], region.Begin[0], region.End[0])
	for i := 1; i < region.Len(); i++ {
		if region.Begin[i] < 0 {
			continue
		}
		begin[i] = text.StringIndex(region.Begin[i])
		end[i] = text.StringIndex(region.End[i])
	}
	return begin, end, nil
}
