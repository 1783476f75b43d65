package regbridge_test

import (
	"errors"
	"fmt"

	"github.com/auvred/regbridge"
)

func ExampleCompile() {
	p := regbridge.MustCompile(`(?<year>\d{4})-(?<month>\d{2})`, "u")
	m, err := p.MatcherString("released 2024-05")
	if err != nil {
		panic(err)
	}
	found, _ := m.Find(0)
	res, _ := m.Snapshot()
	month, _, _ := res.GroupString(2)
	start, _ := res.Start(0)
	fmt.Println(found, start, month)
	// Output: true 9 05
}

func ExampleMatcher_Find() {
	p := regbridge.MustCompile(`\d+`, "g")
	m, _ := p.MatcherString("1 22 333")
	for pos := 0; ; {
		found, err := m.Find(pos)
		if err != nil || !found {
			break
		}
		start, _ := m.Start()
		end, _ := m.End()
		fmt.Println(start, end)
		pos = end
	}
	// Output:
	// 0 1
	// 2 4
	// 5 8
}

func ExampleSyntaxError() {
	_, err := regbridge.Compile("a{2,1}", "", regbridge.WithLocation("app.js", 12, 5))
	var syntaxErr *regbridge.SyntaxError
	if errors.As(err, &syntaxErr) {
		fmt.Println(syntaxErr.Key)
	}
	fmt.Println(err)
	// Output:
	// quantifier.range.order
	// app.js:12:5: Invalid regular expression: /a{2,1}/: numbers out of order in {} quantifier at offset 4
}

func ExampleResult_Groups() {
	p := regbridge.MustCompile(`(a)|(b)`, "")
	m, _ := p.MatcherString("b")
	m.Find(0)
	res, _ := m.Snapshot()
	for it := res.Groups(); it.Next(); {
		units, ok := it.Value()
		fmt.Println(it.Index(), ok, len(units))
	}
	// Output:
	// 1 false 0
	// 2 true 1
}
