package media

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Probe 视频探测结果
type Probe struct {
	Duration int
	Width    int
	Height   int
}

// ProbeVideo 使用 ffprobe 探测视频时长和分辨率
func ProbeVideo(videoFile string) (*Probe, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoFile,
	}

	cmd := exec.Command("ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return &Probe{}, fmt.Errorf("ffprobe failed: %w", err)
	}

	var data struct {
		Streams []struct {
			Width    int    `json:"width"`
			Height   int    `json:"height"`
			Duration string `json:"duration"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}

	if err := json.Unmarshal(output, &data); err != nil {
		return &Probe{}, err
	}

	probe := &Probe{}

	if data.Format.Duration != "" {
		if dur, err := strconv.ParseFloat(data.Format.Duration, 64); err == nil {
			probe.Duration = int(dur)
		}
	}

	for _, s := range data.Streams {
		if s.Width > 0 && s.Height > 0 {
			probe.Width = s.Width
			probe.Height = s.Height
			break
		}
	}

	return probe, nil
}
