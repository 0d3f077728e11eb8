package main

import (
	"fmt"
	"io"
	"runtime"

	vmcpu "github.com/cwbudde/algo-vecmath/cpu"
	"golang.org/x/sys/cpu"
)

// printCPU reports the features algo-vecmath dispatches on, followed by the
// raw x/sys/cpu flags of the host architecture.
func printCPU(w io.Writer) {
	f := vmcpu.DetectFeatures()

	fmt.Fprintf(w, "architecture: %s\n", f.Architecture)
	fmt.Fprintf(w, "vecmath:      sse2=%t avx2=%t neon=%t generic=%t\n", f.HasSSE2, f.HasAVX2, f.HasNEON, f.ForceGeneric)

	switch runtime.GOARCH {
	case "amd64", "386":
		fmt.Fprintf(w, "x86:          sse41=%t avx=%t avx2=%t fma=%t avx512f=%t\n",
			cpu.X86.HasSSE41, cpu.X86.HasAVX, cpu.X86.HasAVX2, cpu.X86.HasFMA, cpu.X86.HasAVX512F)
	case "arm64":
		fmt.Fprintf(w, "arm64:        asimd=%t fp=%t\n", cpu.ARM64.HasASIMD, cpu.ARM64.HasFP)
	}
}
