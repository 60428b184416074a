package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mogaika/figure_anim/abi"
	"github.com/mogaika/figure_anim/gltfexport"
	"github.com/mogaika/figure_anim/host"
	"github.com/mogaika/figure_anim/skeleton"
	"github.com/mogaika/figure_anim/utils"
	"github.com/mogaika/figure_anim/webutils"
)

type jsonAnimation struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Title  string `json:"title"`
}

type jsonSkeleton struct {
	Kind       string          `json:"kind"`
	Animations []jsonAnimation `json:"animations"`
}

type jsonMetadata struct {
	Version   uint32         `json:"version"`
	Skeletons []jsonSkeleton `json:"skeletons"`
}

func (s *Server) HandlerMetadata(w http.ResponseWriter, r *http.Request) {
	var md *abi.Metadata
	err := s.Pool.Do(r.Context(), func(h *host.Host) (err error) {
		md, err = h.Metadata()
		return err
	})
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	title := cases.Title(language.English)
	result := jsonMetadata{Version: md.Version, Skeletons: make([]jsonSkeleton, 0, len(md.Skeletons))}
	for _, sk := range md.Skeletons {
		js := jsonSkeleton{Kind: sk.Kind.String(), Animations: make([]jsonAnimation, 0, len(sk.Animations))}
		for _, a := range sk.Animations {
			js.Animations = append(js.Animations, jsonAnimation{Name: a.Name, Symbol: a.Symbol, Title: title.String(a.Name)})
		}
		result.Skeletons = append(result.Skeletons, js)
	}
	webutils.WriteJson(w, result)
}

func (s *Server) HandlerPresets(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.Config.Presets)
}

type poseRequest struct {
	kind     skeleton.Kind
	anim     string
	animTime float64
	rate     float32
	attr     skeleton.Attr
}

func (s *Server) parsePoseRequest(r *http.Request) (*poseRequest, error) {
	vars := mux.Vars(r)
	kind, err := skeleton.ParseKind(vars["kind"])
	if err != nil {
		return nil, err
	}
	animTime, err := webutils.QueryFloat(r, "time", 0)
	if err != nil {
		return nil, err
	}
	rate, err := webutils.QueryFloat(r, "rate", 1)
	if err != nil {
		return nil, err
	}
	attr, err := s.attrs(kind, r.URL.Query().Get("preset"))
	if err != nil {
		return nil, err
	}
	return &poseRequest{kind: kind, anim: vars["anim"], animTime: animTime, rate: float32(rate), attr: attr}, nil
}

func (s *Server) animate(r *http.Request, pr *poseRequest) (*abi.AnimReturn, error) {
	var ret *abi.AnimReturn
	err := s.Pool.Do(r.Context(), func(h *host.Host) error {
		from, _, err := skeleton.New(pr.kind)
		if err != nil {
			return err
		}
		req := &host.Request{Skeleton: from, Attr: pr.attr}
		ret, err = h.Animate(pr.kind, pr.anim, pr.animTime, pr.rate, req)
		return err
	})
	return ret, err
}

func writeRequestError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, host.ErrUnknownAnimation), errors.Is(err, skeleton.ErrUnknownKind):
		status = http.StatusNotFound
	case !errors.Is(err, host.ErrBroken):
		status = http.StatusBadRequest
	}
	webutils.WriteErrorStatus(w, status, err)
}

type jsonBone struct {
	Name   string     `json:"name"`
	Offset mgl32.Vec3 `json:"offset"`
	Ori    [4]float32 `json:"ori"`
	Euler  mgl32.Vec3 `json:"euler"`
	Scale  mgl32.Vec3 `json:"scale"`
}

type jsonPose struct {
	Kind      string        `json:"kind"`
	Animation string        `json:"animation"`
	AnimTime  float64       `json:"anim_time"`
	Rate      float32       `json:"rate"`
	BoneCount int           `json:"bone_count"`
	Bones     []jsonBone    `json:"bones"`
	Matrices  [][16]float32 `json:"matrices"`
	Light     [3]float32    `json:"light"`
}

func (s *Server) HandlerPose(w http.ResponseWriter, r *http.Request) {
	pr, err := s.parsePoseRequest(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	ret, err := s.animate(r, pr)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	mats, light := ret.Skeleton.ComputeMatrices()
	result := jsonPose{
		Kind:      pr.kind.String(),
		Animation: pr.anim,
		AnimTime:  pr.animTime,
		Rate:      ret.Rate,
		BoneCount: ret.Skeleton.BoneCount(),
		Matrices:  make([][16]float32, len(mats)),
		Light:     light,
	}
	for i, m := range mats {
		result.Matrices[i] = m.Mat4()
	}
	if c, ok := ret.Skeleton.(*skeleton.Character); ok {
		for _, nb := range c.Bones() {
			b := nb.Bone
			result.Bones = append(result.Bones, jsonBone{
				Name:   nb.Name,
				Offset: b.Offset,
				Ori:    [4]float32{b.Ori.V[0], b.Ori.V[1], b.Ori.V[2], b.Ori.W},
				Euler:  utils.QuatToEuler(b.Ori),
				Scale:  b.Scale,
			})
		}
	}
	webutils.WriteJson(w, result)
}

func (s *Server) HandlerPoseGLTF(w http.ResponseWriter, r *http.Request) {
	pr, err := s.parsePoseRequest(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	ret, err := s.animate(r, pr)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	doc := gltfexport.NewDocument()
	gltfexport.Pose(doc, fmt.Sprintf("%v_%s", pr.kind, pr.anim), ret.Skeleton)

	var buf bytes.Buffer
	if err := gltfexport.WriteBinary(&buf, doc); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to encode gltf"))
		return
	}
	webutils.WriteFile(w, &buf, fmt.Sprintf("%v_%s_%.3f.glb", pr.kind, pr.anim, pr.animTime))
}
