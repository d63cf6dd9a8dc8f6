package control

// Identifiers of the controls that take part in dependent rules.
const (
	ExposureControl   Identifier = "aec"
	ExposureValue     Identifier = "aec_value"
	GainControl       Identifier = "agc"
	ManualGain        Identifier = "agc_gain"
	GainCeiling       Identifier = "gainceiling"
	WhiteBalanceGain  Identifier = "awb_gain"
	WhiteBalanceMode  Identifier = "wb_mode"
	FaceDetection     Identifier = "face_detect"
	FaceRecognition   Identifier = "face_recognize"
	FaceEnroll        Identifier = "face_enroll"
	FrameResolution   Identifier = "framesize"
	ImageQuality      Identifier = "quality"
	WhiteBalance      Identifier = "awb"
	ExposureDSP       Identifier = "aec2"
	ExposureLevel     Identifier = "ae_level"
	HorizontalMirror  Identifier = "hmirror"
	VerticalFlip      Identifier = "vflip"
	SpecialEffect     Identifier = "special_effect"
	BlackPixelCorrect Identifier = "bpc"
	WhitePixelCorrect Identifier = "wpc"
	RawGamma          Identifier = "raw_gma"
	LensCorrection    Identifier = "lenc"
	Downsize          Identifier = "dcw"
	ColorBar          Identifier = "colorbar"
	Brightness        Identifier = "brightness"
	Contrast          Identifier = "contrast"
	Saturation        Identifier = "saturation"
)

// Groups shown or hidden by dependent rules.
const (
	GroupExposureValue    = "aec_value-group"
	GroupManualGain       = "agc_gain-group"
	GroupGainCeiling      = "gainceiling-group"
	GroupWhiteBalanceMode = "wb_mode-group"
)

// Frame sizes of the OV2640 sensor, as numbered by the camera firmware.
const (
	FrameQQVGA = 0
	FrameHQVGA = 3
	FrameQVGA  = 4
	FrameCIF   = 5
	FrameVGA   = 6
	FrameSVGA  = 7
	FrameXGA   = 8
	FrameSXGA  = 9
	FrameUXGA  = 10
)

var frameSizes = []string{
	FrameQQVGA: "QQVGA(160x120)",
	FrameHQVGA: "HQVGA(240x176)",
	FrameQVGA:  "QVGA(320x240)",
	FrameCIF:   "CIF(400x296)",
	FrameVGA:   "VGA(640x480)",
	FrameSVGA:  "SVGA(800x600)",
	FrameXGA:   "XGA(1024x768)",
	FrameSXGA:  "SXGA(1280x1024)",
	FrameUXGA:  "UXGA(1600x1200)",
}

// ESP32 returns the control set served by the ESP32 camera web firmware.
func ESP32() *Registry {
	return NewRegistry(
		Definition{ID: FrameResolution, Label: "Resolution", Kind: KindChoice, Default: Choice("4"), Options: frameSizes},
		Definition{ID: ImageQuality, Label: "Quality", Kind: KindRange, Default: Number(10), Min: 10, Max: 63},
		Definition{ID: Brightness, Label: "Brightness", Kind: KindRange, Default: Number(0), Min: -2, Max: 2},
		Definition{ID: Contrast, Label: "Contrast", Kind: KindRange, Default: Number(0), Min: -2, Max: 2},
		Definition{ID: Saturation, Label: "Saturation", Kind: KindRange, Default: Number(0), Min: -2, Max: 2},
		Definition{ID: SpecialEffect, Label: "Special Effect", Kind: KindChoice, Default: Choice("0"),
			Options: []string{"No Effect", "Negative", "Grayscale", "Red Tint", "Green Tint", "Blue Tint", "Sepia"}},
		Definition{ID: WhiteBalance, Label: "AWB", Kind: KindToggle, Default: Bool(true)},
		Definition{ID: WhiteBalanceGain, Label: "AWB Gain", Kind: KindToggle, Default: Bool(true)},
		Definition{ID: WhiteBalanceMode, Label: "WB Mode", Kind: KindChoice, Default: Choice("0"), Group: GroupWhiteBalanceMode,
			Options: []string{"Auto", "Sunny", "Cloudy", "Office", "Home"}},
		Definition{ID: ExposureControl, Label: "AEC SENSOR", Kind: KindToggle, Default: Bool(true)},
		Definition{ID: ExposureDSP, Label: "AEC DSP", Kind: KindToggle, Default: Bool(false)},
		Definition{ID: ExposureLevel, Label: "AE Level", Kind: KindRange, Default: Number(0), Min: -2, Max: 2},
		Definition{ID: ExposureValue, Label: "Exposure", Kind: KindRange, Default: Number(204), Min: 0, Max: 1200, Group: GroupExposureValue},
		Definition{ID: GainControl, Label: "AGC", Kind: KindToggle, Default: Bool(true)},
		Definition{ID: ManualGain, Label: "Gain", Kind: KindRange, Default: Number(5), Min: 0, Max: 30, Group: GroupManualGain},
		Definition{ID: GainCeiling, Label: "Gain Ceiling", Kind: KindRange, Default: Number(0), Min: 0, Max: 6, Group: GroupGainCeiling},
		Definition{ID: BlackPixelCorrect, Label: "BPC", Kind: KindToggle, Default: Bool(false)},
		Definition{ID: WhitePixelCorrect, Label: "WPC", Kind: KindToggle, Default: Bool(true)},
		Definition{ID: RawGamma, Label: "Raw GMA", Kind: KindToggle, Default: Bool(true)},
		Definition{ID: LensCorrection, Label: "Lens Correction", Kind: KindToggle, Default: Bool(true)},
		Definition{ID: HorizontalMirror, Label: "H-Mirror", Kind: KindToggle, Default: Bool(false)},
		Definition{ID: VerticalFlip, Label: "V-Flip", Kind: KindToggle, Default: Bool(false)},
		Definition{ID: Downsize, Label: "DCW (Downsize EN)", Kind: KindToggle, Default: Bool(true)},
		Definition{ID: ColorBar, Label: "Color Bar", Kind: KindToggle, Default: Bool(false)},
		Definition{ID: FaceDetection, Label: "Face Detection", Kind: KindToggle, Default: Bool(false)},
		Definition{ID: FaceRecognition, Label: "Face Recognition", Kind: KindToggle, Default: Bool(false)},
		Definition{ID: FaceEnroll, Label: "Enroll Face", Kind: KindTrigger},
	)
}
