package InputParameters

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fvhydro/eos"
	"github.com/notargets/fvhydro/mesh"
	"github.com/notargets/fvhydro/model_problems/Hydro"
	"github.com/notargets/fvhydro/types"
)

type MeshParameters struct {
	Type       string    `json:"Type"` // box or read
	Dimensions []int     `json:"Dimensions"`
	Lengths    []float64 `json:"Lengths"`
	File       string    `json:"File"`
}

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title      string                                `json:"Title"`
	Prefix     string                                `json:"Prefix"`
	Postfix    string                                `json:"Postfix"`
	OutputDir  string                                `json:"OutputDir"`
	CFL        float64                               `json:"CFL"`
	FinalTime  float64                               `json:"FinalTime"`
	MaxSteps   int                                   `json:"MaxSteps"`
	OutputFreq int                                   `json:"OutputFreq"`
	Gamma      float64                               `json:"Gamma"`
	FluxType   string                                `json:"FluxType"`
	ProcLimit  int                                   `json:"ProcLimit"`
	Mesh       MeshParameters                        `json:"Mesh"`
	InitType   string                                `json:"InitType"`
	ICs        map[string]float64                    `json:"ICs"`
	DefaultBC  string                                `json:"DefaultBC"`
	BCs        map[string]map[int]map[string]float64 `json:"BCs"` // First key is BC name/type, second is boundary tag, third is parameter name
}

// NewInputParameters returns the defaults that an input file overrides
func NewInputParameters() *InputParameters {
	return &InputParameters{
		Prefix:   "hydro",
		Postfix:  "dat",
		CFL:      0.5,
		Gamma:    1.4,
		FluxType: "hlle",
		InitType: "uniform",
		Mesh:     MeshParameters{Type: "box"},
	}
}

// ReadFile parses and validates an input file
func ReadFile(filename string) (ip *InputParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return
	}
	ip = NewInputParameters()
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", Hydro.ErrConfiguration, filename, err)
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	return
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%d\t\t\t= MaxSteps\n", ip.MaxSteps)
	fmt.Printf("%8.5f\t\t= Gamma\n", ip.Gamma)
	fmt.Printf("[%s]\t\t\t= Flux Type\n", ip.FluxType)
	fmt.Printf("[%s]\t\t= InitType\n", ip.InitType)
	fmt.Printf("ICs = %v\n", ip.ICs)
	switch ip.Mesh.Type {
	case "read":
		fmt.Printf("[%s]\t\t= Mesh File\n", ip.Mesh.File)
	default:
		fmt.Printf("%v x %v\t= Box Mesh\n", ip.Mesh.Dimensions, ip.Mesh.Lengths)
	}
	if ip.DefaultBC != "" {
		fmt.Printf("[%s]\t\t= Default BC\n", ip.DefaultBC)
	}
	for _, key := range ip.bcKeys() {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}

func (ip *InputParameters) bcKeys() (keys []string) {
	keys = make([]string, 0, len(ip.BCs))
	for k := range ip.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

// Validate checks everything that can be checked without the mesh
func (ip *InputParameters) Validate() (err error) {
	fail := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", Hydro.ErrConfiguration, fmt.Sprintf(format, args...))
	}
	switch {
	case !(ip.CFL > 0):
		return fail("CFL must be > 0, have %v", ip.CFL)
	case !(ip.Gamma > 1):
		return fail("Gamma must be > 1, have %v", ip.Gamma)
	case !(ip.FinalTime > 0) && ip.MaxSteps <= 0:
		return fail("need FinalTime > 0 or MaxSteps > 0")
	case ip.OutputFreq < 0:
		return fail("OutputFreq must be >= 0, have %d", ip.OutputFreq)
	}
	if _, err = Hydro.NewFluxType(ip.FluxType); err != nil {
		return
	}
	if _, err = Hydro.NewInitType(ip.InitType); err != nil {
		return
	}
	switch strings.ToLower(ip.Mesh.Type) {
	case "box":
		if len(ip.Mesh.Dimensions) != len(ip.Mesh.Lengths) ||
			len(ip.Mesh.Dimensions) < 2 || len(ip.Mesh.Dimensions) > 3 {
			return fail("box mesh needs 2 or 3 Dimensions with matching Lengths, have %v and %v",
				ip.Mesh.Dimensions, ip.Mesh.Lengths)
		}
	case "read":
		if ip.Mesh.File == "" {
			return fail("mesh Type read needs a File")
		}
	default:
		return fail("unknown mesh Type %q, must be box or read", ip.Mesh.Type)
	}
	if ip.DefaultBC != "" {
		var flag types.BCFLAG
		if flag, err = types.NewBCFLAG(ip.DefaultBC); err != nil {
			return fail("DefaultBC: %v", err)
		}
		if flag == types.BC_Fixed {
			return fail("DefaultBC cannot be a fixed state boundary")
		}
	}
	for _, key := range ip.bcKeys() {
		if _, err = types.NewBCFLAG(key); err != nil {
			return fail("BCs: %v", err)
		}
	}
	return
}

// NewMesh generates or reads the mesh
func (ip *InputParameters) NewMesh() (m *mesh.Mesh, err error) {
	switch strings.ToLower(ip.Mesh.Type) {
	case "read":
		m, err = mesh.ReadMeshFile(ip.Mesh.File)
	default:
		m, err = mesh.NewBox(ip.Mesh.Dimensions, ip.Mesh.Lengths)
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", Hydro.ErrConfiguration, err)
	}
	return
}

func (ip *InputParameters) NewEOS() (eos.EOS, error) {
	gas, err := eos.NewIdealGas(ip.Gamma)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", Hydro.ErrConfiguration, err)
	}
	return gas, nil
}

/*
NewContext builds the physics context with a policy for every boundary tag
of m. Tags listed under BCs come first, then tags whose mesh marker names a
boundary family (e.g. "Wall-top"), then DefaultBC. A tag left without a
policy is a configuration error.
*/
func (ip *InputParameters) NewContext(m *mesh.Mesh, e eos.EOS) (ctx *Hydro.Context, err error) {
	var ft Hydro.FluxType
	if ft, err = Hydro.NewFluxType(ip.FluxType); err != nil {
		return
	}
	if ctx, err = Hydro.NewContext(e, ft, ip.CFL); err != nil {
		return
	}
	for _, key := range ip.bcKeys() {
		var flag types.BCFLAG
		if flag, err = types.NewBCFLAG(key); err != nil {
			return nil, fmt.Errorf("%w: %v", Hydro.ErrConfiguration, err)
		}
		for tag, params := range ip.BCs[key] {
			var bc Hydro.BoundaryCondition
			if bc, err = newBC(flag, params, e); err != nil {
				return nil, fmt.Errorf("BCs[%s][%d]: %w", key, tag, err)
			}
			ctx.SetBC(tag, bc)
		}
	}
	var defaultFlag types.BCFLAG
	if ip.DefaultBC != "" {
		if defaultFlag, err = types.NewBCFLAG(ip.DefaultBC); err != nil {
			return nil, fmt.Errorf("%w: %v", Hydro.ErrConfiguration, err)
		}
	}
	for f := 0; f < m.NumFaces(); f++ {
		tag := m.FaceTag(f)
		if len(m.FaceCells(f)) != 1 {
			continue
		}
		if _, ok := ctx.BCs[tag]; ok {
			continue
		}
		flag := types.NewBCTAG(m.BoundaryTags[tag]).GetFLAG()
		if flag == types.BC_None || flag == types.BC_Fixed {
			flag = defaultFlag
		}
		if flag != types.BC_None {
			bc, _ := newBC(flag, nil, e)
			ctx.SetBC(tag, bc)
		}
	}
	err = ctx.CheckBoundaries(m)
	return
}

func newBC(flag types.BCFLAG, params map[string]float64, e eos.EOS) (bc Hydro.BoundaryCondition, err error) {
	switch flag {
	case types.BC_Reflective:
		bc = Hydro.NewReflectiveBC()
	case types.BC_Outflow:
		bc = Hydro.NewOutflowBC()
	case types.BC_Fixed:
		vals := map[string]float64{"rho": 0, "u": 0, "v": 0, "w": 0, "p": 0}
		for k, v := range params {
			if _, ok := vals[k]; !ok {
				err = fmt.Errorf("%w: fixed boundary has no parameter %q", Hydro.ErrConfiguration, k)
				return
			}
			vals[k] = v
		}
		return Hydro.NewFixedBC(vals["rho"], r3.Vec{X: vals["u"], Y: vals["v"], Z: vals["w"]}, vals["p"], e)
	}
	if len(params) != 0 {
		err = fmt.Errorf("%w: %s boundary takes no parameters", Hydro.ErrConfiguration, flag)
	}
	return
}

func (ip *InputParameters) NewICFunction() (ics Hydro.ICFunction, err error) {
	var it Hydro.InitType
	if it, err = Hydro.NewInitType(ip.InitType); err != nil {
		return
	}
	return Hydro.NewICFunction(it, ip.ICs, ip.Gamma)
}

func (ip *InputParameters) SolverConfig() Hydro.SolverConfig {
	return Hydro.SolverConfig{
		FinalTime:  ip.FinalTime,
		MaxSteps:   ip.MaxSteps,
		OutputFreq: ip.OutputFreq,
		Prefix:     ip.Prefix,
		Postfix:    ip.Postfix,
		OutputDir:  ip.OutputDir,
		ProcLimit:  ip.ProcLimit,
	}
}
