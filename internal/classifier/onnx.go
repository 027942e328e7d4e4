package classifier

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/khrees2412/jobmatch/pkg/models"
	ort "github.com/yalue/onnxruntime_go"
)

// skl2onnx names for a classifier exported with zipmap disabled
const (
	defaultONNXInput  = "float_input"
	defaultONNXOutput = "probabilities"
)

// ONNX runs a converted classifier through onnxruntime. The session reuses
// its input and output tensors, so runs are serialized.
type ONNX struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	width   int
}

// LoadONNX initializes the runtime and opens the model at opts.Path. The
// input width is taken from opts.Columns.
func LoadONNX(opts Options) (*ONNX, error) {
	if len(opts.Columns) == 0 {
		return nil, fmt.Errorf("%w: onnx model needs the feature columns", ErrModelUnavailable)
	}
	if _, err := os.Stat(opts.Path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if !ort.IsInitialized() {
		if opts.LibraryPath != "" {
			ort.SetSharedLibraryPath(opts.LibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: initialize onnxruntime: %v", ErrModelUnavailable, err)
		}
	}

	inputName := opts.InputName
	if inputName == "" {
		inputName = defaultONNXInput
	}
	outputName := opts.OutputName
	if outputName == "" {
		outputName = defaultONNXOutput
	}

	width := len(opts.Columns)
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(width)))
	if err != nil {
		return nil, fmt.Errorf("%w: input tensor: %v", ErrModelUnavailable, err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 2))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("%w: output tensor: %v", ErrModelUnavailable, err)
	}

	session, err := ort.NewAdvancedSession(opts.Path,
		[]string{inputName}, []string{outputName},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("%w: open session: %v", ErrModelUnavailable, err)
	}

	return &ONNX{
		session: session,
		input:   input,
		output:  output,
		width:   width,
	}, nil
}

// Predict returns the probability of the positive class
func (o *ONNX) Predict(_ context.Context, features models.FeatureVector) (float64, error) {
	if features.Len() != o.width {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrFeatureMismatch, features.Len(), o.width)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return 0, fmt.Errorf("%w: session closed", ErrModelUnavailable)
	}
	copy(o.input.GetData(), features.Float32s())
	if err := o.session.Run(); err != nil {
		return 0, fmt.Errorf("run onnx session: %w", err)
	}
	probs := o.output.GetData()
	return float64(probs[1]), nil
}

// Close releases the session, its tensors and the runtime environment
func (o *ONNX) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return nil
	}
	err := o.session.Destroy()
	o.input.Destroy()
	o.output.Destroy()
	o.session = nil
	if envErr := ort.DestroyEnvironment(); err == nil {
		err = envErr
	}
	return err
}
