package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const maxVolume = 150

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type streamInfo struct {
	ID      int
	Volume  int
	AppName string
}

type fadeTarget struct {
	id   int
	from int
	to   int
}

// Ducker fades PulseAudio sink inputs of other applications while the
// assistant talks. Streams whose application.name is in selfNames are left
// alone.
type Ducker struct {
	mu          sync.Mutex
	active      bool
	selfNames   []string
	originalVol map[int]int
	minVolume   int
	factor      float64
	fade        time.Duration

	// pactl seams
	list func(ctx context.Context) (string, error)
	set  func(ctx context.Context, id, percent int) error
}

func NewDucker(selfNames []string, minVolume int, factor float64, fade time.Duration) *Ducker {
	return &Ducker{
		selfNames:   append([]string(nil), selfNames...),
		originalVol: make(map[int]int),
		minVolume:   clampVolume(minVolume),
		factor:      factor,
		fade:        fade,
		list:        pactlList,
		set:         pactlSetVolume,
	}
}

// Duck lowers every foreign stream to current*factor, never below minVolume.
func (d *Ducker) Duck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := d.streams(ctx)
	if err != nil {
		return err
	}

	d.originalVol = make(map[int]int)

	var targets []fadeTarget
	for _, s := range streams {
		to := int(math.Round(float64(s.Volume) * d.factor))
		if to < d.minVolume {
			to = d.minVolume
		}
		d.originalVol[s.ID] = s.Volume
		targets = append(targets, fadeTarget{id: s.ID, from: s.Volume, to: clampVolume(to)})
	}

	if err := d.fadeAll(ctx, targets); err != nil {
		return err
	}

	d.active = true
	return nil
}

// Restore fades ducked streams back to the volume they had before Duck.
// Streams that appeared after Duck are ignored.
func (d *Ducker) Restore(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	streams, err := d.streams(ctx)
	if err != nil {
		return err
	}

	var targets []fadeTarget
	for _, s := range streams {
		orig, ok := d.originalVol[s.ID]
		if !ok {
			continue
		}
		targets = append(targets, fadeTarget{id: s.ID, from: s.Volume, to: orig})
	}

	if err := d.fadeAll(ctx, targets); err != nil {
		return err
	}

	d.originalVol = make(map[int]int)
	d.active = false
	return nil
}

func (d *Ducker) streams(ctx context.Context) ([]streamInfo, error) {
	out, err := d.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sink inputs: %w", err)
	}

	var res []streamInfo
	for _, s := range parseSinkInputs(out) {
		if d.isSelf(s) {
			continue
		}
		res = append(res, s)
	}
	return res, nil
}

func (d *Ducker) isSelf(s streamInfo) bool {
	for _, name := range d.selfNames {
		if s.AppName == name {
			return true
		}
	}
	return false
}

// fadeAll steps every target linearly over d.fade, 10ms per step at most.
func (d *Ducker) fadeAll(ctx context.Context, targets []fadeTarget) error {
	if len(targets) == 0 {
		return nil
	}

	const minStep = 10 * time.Millisecond

	steps := int(d.fade / minStep)
	if steps < 1 {
		steps = 1
	}
	stepDur := d.fade / time.Duration(steps)

	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frac := float64(i) / float64(steps)
		for _, t := range targets {
			v := int(math.Round(float64(t.from) + float64(t.to-t.from)*frac))
			if err := d.set(ctx, t.id, v); err != nil {
				return fmt.Errorf("set volume id=%d: %w", t.id, err)
			}
		}

		if i < steps && stepDur > 0 {
			time.Sleep(stepDur)
		}
	}

	return nil
}

// parseSinkInputs reads the output of `pactl list sink-inputs`.
func parseSinkInputs(text string) []streamInfo {
	parts := strings.Split(text, "Sink Input #")
	if len(parts) <= 1 {
		return nil
	}

	var res []streamInfo
	for _, block := range parts[1:] {
		newline := strings.IndexByte(block, '\n')
		if newline <= 0 {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(block[:newline]))
		if err != nil {
			continue
		}

		s := streamInfo{ID: id}
		for _, line := range strings.Split(block[newline+1:], "\n") {
			line = strings.TrimSpace(line)

			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) >= 2 {
					if v, err := strconv.Atoi(m[1]); err == nil {
						s.Volume = v
					}
				}
			}

			// application.name = "Firefox"
			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				if q := strings.SplitN(line, `"`, 3); len(q) == 3 {
					s.AppName = q[1]
				}
			}
		}

		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}

	return res
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > maxVolume {
		return maxVolume
	}
	return v
}

func pactlList(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return "", fmt.Errorf("pactl list sink-inputs: %w", err)
	}
	return string(out), nil
}

func pactlSetVolume(ctx context.Context, id, percent int) error {
	arg := fmt.Sprintf("%d%%", clampVolume(percent))
	return exec.CommandContext(ctx, "pactl", "set-sink-input-volume", strconv.Itoa(id), arg).Run()
}
