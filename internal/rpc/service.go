// Package rpc exposes the analysis engine as the gRPC service
// text_processor.TextProcessor and provides its client.
package rpc

import (
	"context"

	"google.golang.org/grpc"

	"textproc/internal/domain"
)

const (
	ServiceName       = "text_processor.TextProcessor"
	processTextMethod = "/" + ServiceName + "/ProcessText"
)

// TextRequest is the ProcessText input message.
type TextRequest struct {
	Text string `json:"text"`
}

// GetText returns the request text, tolerating a nil request.
func (r *TextRequest) GetText() string {
	if r == nil {
		return ""
	}
	return r.Text
}

// TextResponse is the ProcessText output message.
type TextResponse struct {
	Summary         string   `json:"summary"`
	Sentiment       string   `json:"sentiment"`
	Keywords        []string `json:"keywords"`
	OriginalLength  int32    `json:"original_length"`
	ProcessedLength int32    `json:"processed_length"`
}

func responseFromResult(r domain.AnalysisResult) *TextResponse {
	kws := r.Keywords
	if kws == nil {
		kws = []string{}
	}
	return &TextResponse{
		Summary:         r.Summary,
		Sentiment:       string(r.Sentiment),
		Keywords:        kws,
		OriginalLength:  int32(r.OriginalLength),
		ProcessedLength: int32(r.ProcessedLength),
	}
}

// Result converts the wire message back to the engine's result type.
func (r *TextResponse) Result() domain.AnalysisResult {
	kws := r.Keywords
	if kws == nil {
		kws = []string{}
	}
	return domain.AnalysisResult{
		Summary:         r.Summary,
		Sentiment:       domain.Sentiment(r.Sentiment),
		Keywords:        kws,
		OriginalLength:  int(r.OriginalLength),
		ProcessedLength: int(r.ProcessedLength),
	}
}

// TextProcessorServer is the server API of the TextProcessor service.
type TextProcessorServer interface {
	ProcessText(context.Context, *TextRequest) (*TextResponse, error)
}

// RegisterTextProcessorServer attaches srv to a gRPC service registrar.
func RegisterTextProcessorServer(s grpc.ServiceRegistrar, srv TextProcessorServer) {
	s.RegisterService(&textProcessorServiceDesc, srv)
}

func processTextHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(TextRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TextProcessorServer).ProcessText(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: processTextMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TextProcessorServer).ProcessText(ctx, req.(*TextRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var textProcessorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TextProcessorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ProcessText",
			Handler:    processTextHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "text_processor.proto",
}
