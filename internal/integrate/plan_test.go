package integrate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Elenmith/TPLProgram/internal/errors"
)

func TestPlan_RemainderGoesToLastPartition(t *testing.T) {
	parts, err := PlanAll(10, 3)
	require.NoError(t, err)

	require.Equal(t, []Partition{
		{Index: 0, Lo: 0, Hi: 3},
		{Index: 1, Lo: 3, Hi: 6},
		{Index: 2, Lo: 6, Hi: 10},
	}, parts)
	require.Equal(t, 4, parts[2].Width())
	require.Equal(t, "[6,10)", parts[2].String())
}

func TestPlan_DisjointAndExhaustive(t *testing.T) {
	for _, total := range []int{1, 2, 7, 10, 97, 256} {
		for count := 1; count <= total; count++ {
			t.Run(fmt.Sprintf("%d/%d", total, count), func(t *testing.T) {
				parts, err := PlanAll(total, count)
				require.NoError(t, err)
				require.Len(t, parts, count)

				covered := make([]int, total)
				next := 0
				for i, p := range parts {
					require.Equal(t, i, p.Index)
					require.Equal(t, next, p.Lo, "partitions must be contiguous")
					require.Greater(t, p.Hi, p.Lo, "partitions must be non-empty")
					for k := p.Lo; k < p.Hi; k++ {
						covered[k]++
					}
					next = p.Hi
				}
				require.Equal(t, total, next)
				for k, c := range covered {
					require.Equal(t, 1, c, "interval %d covered %d times", k, c)
				}
			})
		}
	}
}

func TestPlan_InvalidRange(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		partitions int
	}{
		{"zero intervals", 0, 1},
		{"negative intervals", -5, 1},
		{"zero partitions", 10, 0},
		{"negative partitions", 10, -2},
		{"more partitions than intervals", 10, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := Plan(tt.total, tt.partitions)
			require.Error(t, err)
			require.Nil(t, seq)
			require.True(t, errors.IsInvalidRange(err), "got %v", err)

			var rangeErr *errors.RangeError
			require.ErrorAs(t, err, &rangeErr)
			require.Equal(t, tt.total, rangeErr.Intervals)
			require.Equal(t, tt.partitions, rangeErr.Partitions)
		})
	}
}

func TestPlan_LazyAndRestartable(t *testing.T) {
	seq, err := Plan(100, 10)
	require.NoError(t, err)

	var first []Partition
	for p := range seq {
		first = append(first, p)
		if len(first) == 3 {
			break
		}
	}
	require.Len(t, first, 3)

	var again []Partition
	for p := range seq {
		again = append(again, p)
	}
	require.Len(t, again, 10)
	require.Equal(t, first, again[:3])
}
