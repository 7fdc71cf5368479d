package interlace_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/arloliu/interlace/coded"
	"github.com/arloliu/interlace/interlaced"
	"github.com/arloliu/interlace/ops"
	"github.com/arloliu/interlace/reason"
	"github.com/arloliu/interlace/tabular"
)

func Example() {
	const data = `id,age,q1
1,34,1
2,-99,2
3,NA,REFUSED
4,41,1
`
	yesNo := coded.MustCodes(coded.Pair{Label: "yes", Code: 1}, coded.Pair{Label: "no", Code: 2})
	tokens := reason.DefaultTokens().Labelled("skipped", "-99").Bare("REFUSED")

	tbl, err := tabular.Decode(strings.NewReader(data),
		tabular.WithTokens(tokens),
		tabular.WithColumn("q1", interlaced.Coded(yesNo)),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	age, _ := tbl.Column("age")
	mean, _ := ops.Mean(age, ops.SkipAbsent())
	fmt.Println("mean age:", mean)

	skipped, _ := ops.Eq(age, reason.Missing(reason.Label("skipped")))
	fmt.Println("skipped:", skipped.Indices())

	q1, _ := tbl.Column("q1")
	for i := range q1.Len() {
		if s, ok := q1.Format(i); ok {
			fmt.Println(i, s)
			continue
		}
		k, _ := q1.Reason(i)
		fmt.Println(i, "missing:", k)
	}

	_ = tabular.Encode(os.Stdout, tbl, tabular.WithReasonTokens(tokens), tabular.WithCodedLabels())

	// Output:
	// mean age: 37.5
	// skipped: [1]
	// 0 yes
	// 1 no
	// 2 missing: REFUSED
	// 3 yes
	// id,age,q1
	// 1,34,yes
	// 2,-99,no
	// 3,NA,REFUSED
	// 4,41,yes
}
