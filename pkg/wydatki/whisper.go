package wydatki

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// LocalWhisper transcribes voice messages with a local whisper-cli binary,
// converting Telegram ogg files to 16 kHz mono wav with ffmpeg first. Used
// when no AssemblyAI token is configured.
type LocalWhisper struct{}

func NewLocalWhisper() *LocalWhisper {
	return &LocalWhisper{}
}

func (w *LocalWhisper) Transcribe(ctx context.Context, audioFilePath string) (string, error) {
	wav, err := convertToWav(ctx, audioFilePath)
	if err != nil {
		return "", err
	}
	defer os.Remove(wav)

	cmd := exec.CommandContext(ctx,
		"whisper-cli",
		"-f", wav,
		"-l", "pl",
		"-otxt",
		"-of", "-",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("whisper-cli error: %w, output: %s", err, string(output))
	}

	return string(output), nil
}

func convertToWav(ctx context.Context, oggFilePath string) (string, error) {
	fileBase := filepath.Base(oggFilePath)
	fileExt := filepath.Ext(fileBase)
	fileName := fileBase[:len(fileBase)-len(fileExt)]
	wav := fmt.Sprintf("/tmp/expenses-bot/%s.wav", fileName)
	err := os.MkdirAll(filepath.Dir(wav), 0755)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y", // overwrite output file without asking
		"-i", oggFilePath,
		"-ac", "1", // 1 channel
		"-ar", "16000", // 16 kHz
		"-acodec", "pcm_s16le", // 16-bit little-endian PCM
		wav)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg error: %w, output: %s", err, string(output))
	}

	return wav, nil
}
