package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/filterql/internal/datemath"
)

// DateMathOptions holds flags for the datemath command.
type DateMathOptions struct {
	*RootOptions
	Now string
	Gap bool
}

// DateMathResult is the payload of an evaluated expression.
type DateMathResult struct {
	Expression string `json:"expression"`
	Time       string `json:"time,omitempty"`
	Relative   bool   `json:"relative,omitempty"`
	Gap        string `json:"gap,omitempty"`
	Seconds    int64  `json:"seconds,omitempty"`
}

func (r DateMathResult) String() string {
	if r.Gap != "" {
		return fmt.Sprintf("%s = %s", r.Expression, r.Gap)
	}
	return fmt.Sprintf("%s = %s", r.Expression, r.Time)
}

// NewDateMathCommand creates the datemath command.
func NewDateMathCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DateMathOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "datemath <expr>",
		Short: "Evaluate a date-math expression",
		Long: `Evaluate a date-math expression such as NOW/DAY-14DAYS or
2015-01-01T00:00:00Z+1MONTH.

With --gap, the expression is read as a span (+1DAY, -6MONTHS+2DAYS) and
printed as a duration; calendar units use their average lengths.

Examples:
  filterql datemath 'NOW/DAY-14DAYS'
  filterql datemath --now 2024-03-15T10:30:45Z 'NOW/MONTH+1MONTH'
  filterql datemath --gap '+1DAY'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDateMath(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Now, "now", "", "reference instant for NOW (RFC 3339, default: current time)")
	cmd.Flags().BoolVar(&opts.Gap, "gap", false, "evaluate as a duration")

	return cmd
}

func runDateMath(opts *DateMathOptions, expr string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	p, err := dateParser(opts.Now)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeUsage, err)
	}

	if opts.Gap {
		d, err := p.ParseMathGap(expr)
		if err != nil {
			return out.Fail(ExitFailure, dateMathErrorCode(err), err)
		}
		return out.Success(DateMathResult{
			Expression: expr,
			Gap:        d.String(),
			Seconds:    int64(d / time.Second),
		})
	}

	e, err := p.ParseMath(expr)
	if err != nil {
		return out.Fail(ExitFailure, dateMathErrorCode(err), err)
	}
	opts.Logger().Debug("date math evaluated", "trace_id", out.TraceID, "expression", e.String())
	return out.Success(DateMathResult{
		Expression: e.String(),
		Time:       e.Time().Format(time.RFC3339Nano),
		Relative:   e.IsRelative(),
	})
}

func dateMathErrorCode(err error) string {
	if errors.Is(err, datemath.ErrSyntax) {
		return ErrCodeDateMath
	}
	return ErrCodeGeneric
}
