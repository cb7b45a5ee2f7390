package adapters

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
)

type pollySynthesizer struct {
	logger outbound.LoggerPort
	svc    *polly.Polly
}

func NewPollySynthesizer(logger outbound.LoggerPort, region string) (outbound.SpeechSynthesizerPort, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return &pollySynthesizer{
		logger: logger,
		svc:    polly.New(sess),
	}, nil
}

func (p *pollySynthesizer) Name() string { return "awspolly" }

func (p *pollySynthesizer) MaxChars() int { return 3000 }

// ConfigFingerprint names the fixed engine; a different engine for the same
// voice produces different audio.
func (p *pollySynthesizer) ConfigFingerprint() string { return polly.EngineNeural }

func (p *pollySynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeRequest) ([]byte, error) {
	out, err := p.svc.SynthesizeSpeechWithContext(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(req.Text),
		OutputFormat: aws.String(polly.OutputFormatMp3),
		VoiceId:      aws.String(capitalize(req.Voice)),
		Engine:       aws.String(polly.EngineNeural),
	})
	if err != nil {
		p.logger.Error(err, "polly synthesis failed")
		return nil, err
	}
	if out.AudioStream == nil {
		return nil, fmt.Errorf("polly response is missing the audio stream")
	}
	defer out.AudioStream.Close()
	return io.ReadAll(out.AudioStream)
}
