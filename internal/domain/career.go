package domain

// Career is one of the fixed career tracks a camp can prepare students for.
type Career string

const (
	CareerRobotics               Career = "Robotics"
	CareerMechatronics           Career = "Mechatronics"
	CareerArtificialVision       Career = "Artificial Vision"
	CareerDesktopApplications    Career = "Desktop Applications"
	CareerPLC                    Career = "Programmable Logic Controller"
	CareerWebDevelopment         Career = "Web Development"
	CareerMobileDevelopment      Career = "Mobile Development"
	CareerMachineLearning        Career = "Machine Learning"
	CareerDataAnalysis           Career = "Data Analysis"
	CareerArtificialIntelligence Career = "Artificial Intelligence"
	CareerNetworkingSecurity     Career = "Networking & Security"
	CareerOperatingSystems       Career = "Operating Systems"
	CareerHardware               Career = "Hardware"
	CareerWebDesign              Career = "Web Design"
	CareerGraphicDesign          Career = "Graphic Design"
)

// Careers lists every valid career in display order.
var Careers = []Career{
	CareerRobotics,
	CareerMechatronics,
	CareerArtificialVision,
	CareerDesktopApplications,
	CareerPLC,
	CareerWebDevelopment,
	CareerMobileDevelopment,
	CareerMachineLearning,
	CareerDataAnalysis,
	CareerArtificialIntelligence,
	CareerNetworkingSecurity,
	CareerOperatingSystems,
	CareerHardware,
	CareerWebDesign,
	CareerGraphicDesign,
}

// Valid reports whether c is one of the known careers.
func (c Career) Valid() bool {
	for _, known := range Careers {
		if c == known {
			return true
		}
	}
	return false
}
