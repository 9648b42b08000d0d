package common

// --- Control-plane component names ---
const (
	KubeAPIServer         = "kube-apiserver"
	KubeControllerManager = "kube-controller-manager"
	KubeScheduler         = "kube-scheduler"
	KubeDNS               = "kube-dns"
)

// MasterComponents are the services started together once the certificate
// authority and the etcd relation are both available. KubeDNS is started
// later, after the API server answers.
var MasterComponents = []string{
	KubeAPIServer,
	KubeControllerManager,
	KubeScheduler,
}

// AllComponents lists every service this controller renders and manages,
// in render order.
var AllComponents = []string{
	KubeAPIServer,
	KubeControllerManager,
	KubeScheduler,
	KubeDNS,
}

// SystemNamespace is the namespace required by the DNS add-on manifests.
const SystemNamespace = "kube-system"

// DNSReplicas is the fixed replica count published to the DNS add-on
// templates. The upstream kubedns templates expect it under the pillar
// mapping.
const DNSReplicas = 1
