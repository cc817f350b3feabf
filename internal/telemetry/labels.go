package telemetry

// Well-known timer labels, one per named region the engine instruments.
const (
	LabelGemmComplete         = "gemm_reduced.complete"
	LabelGemmPrecalculations  = "gemm_reduced.precalculations"
	LabelGemmEncode           = "gemm_reduced.GMPtoDouble"
	LabelGemmGPUCopyForward   = "gemm_reduced.gpu_copy_forward"
	LabelGemmMultiplication   = "gemm_reduced.multiplication"
	LabelGemmGPUCopyBack      = "gemm_reduced.gpu_copy_back"
	LabelGemmDecode           = "gemm_reduced.DoubletoGMP"
	LabelSyrkComplete         = "syrk_reduced.complete"
	LabelSyrkPrecalculations  = "syrk_reduced.precalculations"
	LabelSyrkEncode           = "syrk_reduced.GMPtoDouble"
	LabelSyrkGPUCopyForward   = "syrk_reduced.gpu_copy_forward"
	LabelSyrkMultiplication   = "syrk_reduced.multiplication"
	LabelSyrkGPUCopyBack      = "syrk_reduced.gpu_copy_back"
	LabelSyrkDecode           = "syrk_reduced.DoubletoGMP"
	LabelBaseCaseMultiply     = "base_case_mul.multiply"
)
