package viz

import (
	"fmt"
	"io"
	"time"

	"github.com/san-kum/ising/internal/experiment"
)

// Reporter prints one progress line per finished temperature. It
// implements experiment.SweepObserver.
type Reporter struct {
	out   io.Writer
	start time.Time
	// Every limits output to every n-th temperature; the last one is
	// always printed.
	Every int
	// Plain disables lipgloss styling, e.g. when output is piped.
	Plain bool
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, start: time.Now(), Every: 1}
}

func (r *Reporter) OnTemperature(index, total int, p experiment.Point) {
	done := index + 1
	if r.Every > 1 && done%r.Every != 0 && done != total {
		return
	}

	frac := float64(done) / float64(total)
	elapsed := time.Since(r.start)
	eta := time.Duration(0)
	if done < total {
		eta = time.Duration(float64(elapsed) / frac * (1 - frac))
	}

	line := fmt.Sprintf("[%*d/%d] T=%.4f E=%+.4f |M|=%.4f C=%.4f X=%.4f acc=%.3f",
		len(fmt.Sprint(total)), done, total,
		p.Temperature, p.Energy, p.AbsMagnetisation, p.SpecificHeat, p.Susceptibility, p.AcceptanceRate)
	if p.Replicas > 1 {
		line += fmt.Sprintf(" ±C=%.4f (%d replicas)", p.StdErr.SpecificHeat, p.Replicas)
	}

	if r.Plain {
		fmt.Fprintf(r.out, "%s eta %s\n", line, eta.Round(time.Second))
		return
	}
	st := CurrentTheme.Styles()
	fmt.Fprintf(r.out, "%s %s %s\n", st.ProgressBar(frac, 20), line, st.Subtle.Render("eta "+eta.Round(time.Second).String()))
}

// Summary prints the Curie estimate and elapsed time of a finished sweep.
func (r *Reporter) Summary(res *experiment.SweepResult) {
	msg := fmt.Sprintf("Curie Temperature = %.4f J/k_B", res.Curie)
	if !r.Plain {
		msg = CurrentTheme.Styles().Curie.Render(msg)
	}
	fmt.Fprintf(r.out, "%s (%d temperatures in %s)\n", msg, len(res.Points), res.Elapsed.Round(time.Millisecond))
}
