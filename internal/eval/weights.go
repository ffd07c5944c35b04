package eval

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Weight file format constants
const (
	MagicNumber = 0x544E4E54 // "TNNT"
	Version     = 1
)

// ErrBadWeights is returned for weight files that do not match this network.
var ErrBadWeights = errors.New("bad weights file")

// FileHeader is the header of the weight file.
type FileHeader struct {
	Magic      uint32
	Version    uint32
	InputSize  uint32
	HiddenSize uint32
}

// LoadWeights loads network weights from a binary file.
// File format (little endian):
//   - Header: Magic, Version, InputSize, HiddenSize (uint32 each)
//   - HiddenWeights: InputSize * HiddenSize * float32
//   - HiddenBias: HiddenSize * float32
//   - OutputWeights: HiddenSize * float32
//   - OutputBias: float32
func (n *Network) LoadWeights(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open weights file: %w", err)
	}
	defer f.Close()

	return n.LoadWeightsFromReader(bufio.NewReader(f))
}

// LoadWeightsFromReader loads network weights from an io.Reader.
func (n *Network) LoadWeightsFromReader(r io.Reader) error {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	if header.Magic != MagicNumber {
		return fmt.Errorf("%w: invalid magic number: expected %x, got %x", ErrBadWeights, MagicNumber, header.Magic)
	}
	if header.Version != Version {
		return fmt.Errorf("%w: unsupported version: expected %d, got %d", ErrBadWeights, Version, header.Version)
	}
	if header.InputSize != InputSize || header.HiddenSize != HiddenSize {
		return fmt.Errorf("%w: size mismatch: expected %dx%d, got %dx%d",
			ErrBadWeights, InputSize, HiddenSize, header.InputSize, header.HiddenSize)
	}

	// Decode into a scratch network so a short file leaves n untouched.
	var tmp Network
	if err := binary.Read(r, binary.LittleEndian, &tmp.HiddenWeights); err != nil {
		return fmt.Errorf("failed to read hidden weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &tmp.HiddenBias); err != nil {
		return fmt.Errorf("failed to read hidden bias: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &tmp.OutputWeights); err != nil {
		return fmt.Errorf("failed to read output weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &tmp.OutputBias); err != nil {
		return fmt.Errorf("failed to read output bias: %w", err)
	}

	*n = tmp
	return nil
}

// SaveWeights saves network weights to a binary file.
func (n *Network) SaveWeights(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create weights file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := n.WriteWeights(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write weights file: %w", err)
	}
	return f.Close()
}

// WriteWeights writes the header and weights to w.
func (n *Network) WriteWeights(w io.Writer) error {
	header := FileHeader{
		Magic:      MagicNumber,
		Version:    Version,
		InputSize:  InputSize,
		HiddenSize: HiddenSize,
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &n.HiddenWeights); err != nil {
		return fmt.Errorf("failed to write hidden weights: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &n.HiddenBias); err != nil {
		return fmt.Errorf("failed to write hidden bias: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &n.OutputWeights); err != nil {
		return fmt.Errorf("failed to write output weights: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, n.OutputBias); err != nil {
		return fmt.Errorf("failed to write output bias: %w", err)
	}
	return nil
}

// Load returns the evaluator for a weights file: the network stored in it,
// or the material evaluator when filename is empty.
func Load(filename string) (Evaluator, error) {
	if filename == "" {
		return NewMaterial(), nil
	}
	n := NewNetwork()
	if err := n.LoadWeights(filename); err != nil {
		return nil, err
	}
	return n, nil
}
